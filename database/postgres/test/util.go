// Package pgtest boots a throwaway postgres container for store tests.
package pgtest

import (
	"database/sql"
	"fmt"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/pkg/errors"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	containerName = "postgres"
	containerTag  = "14"

	testUser     = "postgres"
	testPassword = "password"
	testDatabase = "billing_test"
)

// StartPostgresDB runs a postgres container in the given pool and returns
// its connection URL. The container is removed when the pool is purged or
// after its hard expiry.
func StartPostgresDB(pool *dockertest.Pool) (string, error) {
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: containerName,
		Tag:        containerTag,
		Env: []string{
			"POSTGRES_USER=" + testUser,
			"POSTGRES_PASSWORD=" + testPassword,
			"POSTGRES_DB=" + testDatabase,
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to start postgres container")
	}

	// Kill the container after 2 minutes in case a test run leaks it.
	if err := resource.Expire(120); err != nil {
		return "", errors.Wrap(err, "failed to set container expiry")
	}

	url := fmt.Sprintf(
		"postgres://%s:%s@localhost:%s/%s?sslmode=disable",
		testUser,
		testPassword,
		resource.GetPort("5432/tcp"),
		testDatabase,
	)
	return url, nil
}

// WaitForConnection blocks until the database accepts connections and
// returns an open handle plus a close func.
func WaitForConnection(pool *dockertest.Pool, databaseURL string) (*sql.DB, func(), error) {
	var db *sql.DB
	err := pool.Retry(func() error {
		var err error
		db, err = sql.Open("pgx", databaseURL)
		if err != nil {
			return err
		}
		return db.Ping()
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "database never became reachable")
	}

	return db, func() { _ = db.Close() }, nil
}
