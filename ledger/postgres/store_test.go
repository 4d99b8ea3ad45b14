package postgres

import (
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"

	pgtest "github.com/imagestudio/billing-server/database/postgres/test"
	"github.com/imagestudio/billing-server/ledger/tests"
)

var (
	testPool    *dockertest.Pool
	databaseURL string
)

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	var err error
	testPool, err = dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("Error creating docker pool")
		os.Exit(1)
	}

	databaseURL, err = pgtest.StartPostgresDB(testPool)
	if err != nil {
		log.WithError(err).Error("Error starting postgres image")
		os.Exit(1)
	}

	_, closeDB, err := pgtest.WaitForConnection(testPool, databaseURL)
	if err != nil {
		log.WithError(err).Error("Error waiting for connection")
		os.Exit(1)
	}

	migrations, err := migrate.New("file://../../db/migrations", databaseURL)
	if err != nil {
		log.WithError(err).Error("Error creating migration instance")
		os.Exit(1)
	}
	if err := migrations.Up(); err != nil && err != migrate.ErrNoChange {
		log.WithError(err).Error("Error applying migrations")
		os.Exit(1)
	}

	code := m.Run()
	closeDB()
	os.Exit(code)
}

func TestLedger_PostgresStore(t *testing.T) {
	db, closeDB, err := pgtest.WaitForConnection(testPool, databaseURL)
	if err != nil {
		t.Fatalf("error connecting to postgres: %v", err)
	}
	t.Cleanup(closeDB)

	testStore := NewInPostgres(db)
	teardown := func() {
		testStore.(*pgStore).reset()
	}
	tests.RunStoreTests(t, testStore, teardown)
}
