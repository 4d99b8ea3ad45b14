// billingtool replays a purchase result event against the billing helper:
// it decodes the event document, verifies the purchase signature with the
// configured Play license key, prints the outcome, and optionally records
// it in the purchase ledger.
//
// Usage: billingtool <event.json>   (or "-" to read the event from stdin)
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/imagestudio/billing-server/billing"
	"github.com/imagestudio/billing-server/billing/play"
	"github.com/imagestudio/billing-server/ledger"
	ledgerpg "github.com/imagestudio/billing-server/ledger/postgres"
	"github.com/imagestudio/billing-server/model"
)

type config struct {
	PlayLicenseKey string `env:"PLAY_LICENSE_KEY,required"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsDir  string `env:"MIGRATIONS_DIR" envDefault:"db/migrations"`
}

// resultDocument is the JSON shape of a replayed platform result event.
// Pointer fields distinguish absent entries from empty ones, matching the
// payload contract.
type resultDocument struct {
	RequestCode  int32   `json:"requestCode"`
	Status       string  `json:"status"`
	ItemType     string  `json:"itemType"`
	NullData     bool    `json:"nullData"`
	ResponseCode *int64  `json:"responseCode"`
	PurchaseData *string `json:"purchaseData"`
	Signature    *string `json:"dataSignature"`
}

func (d *resultDocument) toEvent() billing.ResultEvent {
	e := billing.ResultEvent{RequestCode: d.RequestCode}

	switch d.Status {
	case "OK":
		e.Status = billing.StatusOK
	case "CANCELED":
		e.Status = billing.StatusCanceled
	default:
		e.Status = billing.StatusOther
	}

	if d.NullData {
		return e
	}

	e.Data = billing.Bundle{}
	if d.ResponseCode != nil {
		e.Data[billing.KeyResponseCode] = *d.ResponseCode
	}
	if d.PurchaseData != nil {
		e.Data[billing.KeyPurchaseData] = *d.PurchaseData
	}
	if d.Signature != nil {
		e.Data[billing.KeyDataSignature] = *d.Signature
	}
	return e
}

func main() {
	log := zap.Must(zap.NewProduction())
	defer func() { _ = log.Sync() }()

	if err := run(log); err != nil {
		log.Fatal("billingtool failed", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded")
	}

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return errors.Wrap(err, "failed to parse config")
	}

	doc, err := readDocument(os.Args[1:])
	if err != nil {
		return err
	}

	var store ledger.Store
	if cfg.DatabaseURL != "" {
		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		store = ledgerpg.NewInPostgres(db)
	}

	helper := billing.NewHelper(log, play.NewVerifier(cfg.PlayLicenseKey))
	if err := helper.CompleteSetup(true); err != nil {
		return err
	}
	defer helper.Dispose()

	itemType := billing.ItemType(doc.ItemType)
	if doc.ItemType == "" {
		itemType = billing.ItemTypeInApp
	}

	var recordErr error
	listener := func(result billing.Result, purchase *billing.Purchase) {
		fmt.Println(result)
		if purchase != nil {
			fmt.Printf("Purchase: sku=%s token=%s orderId=%s\n", purchase.SKU, purchase.Token, purchase.OrderID)
		}
		if store == nil || purchase == nil {
			return
		}
		recordErr = recordOutcome(log, store, result, purchase)
	}

	if err := helper.BeginPurchaseFlow(doc.RequestCode, itemType, listener); err != nil {
		return errors.Wrap(err, "failed to begin purchase flow")
	}

	handled, err := helper.HandlePurchaseResult(doc.toEvent())
	if err != nil {
		return errors.Wrap(err, "failed to handle purchase result")
	}
	if !handled {
		return errors.Errorf("event request code %d did not match the pending flow", doc.RequestCode)
	}
	return recordErr
}

func recordOutcome(log *zap.Logger, store ledger.Store, result billing.Result, purchase *billing.Purchase) error {
	var state ledger.State
	switch result.Code {
	case billing.ResponseOK:
		state = ledger.StateVerified
	case billing.HelperVerificationFailed:
		state = ledger.StateRejected
	default:
		return nil
	}

	receiptID := model.ReceiptID(purchase.OriginalJSON, purchase.Signature)
	err := store.CreatePurchase(context.Background(), &ledger.Record{
		ReceiptID: receiptID,
		ItemType:  purchase.ItemType,
		SKU:       purchase.SKU,
		Token:     purchase.Token,
		State:     state,
	})
	if errors.Is(err, ledger.ErrExists) {
		log.Warn("Receipt was already recorded",
			zap.String("receipt_id", model.ReceiptIDString(receiptID)))
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to record purchase")
	}

	log.Info("Recorded purchase",
		zap.String("receipt_id", model.ReceiptIDString(receiptID)),
		zap.String("sku", purchase.SKU),
		zap.Uint8("state", uint8(state)))
	return nil
}

func readDocument(args []string) (*resultDocument, error) {
	if len(args) != 1 {
		return nil, errors.New("usage: billingtool <event.json>")
	}

	var (
		raw []byte
		err error
	)
	if args[0] == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read event document")
	}

	var doc resultDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse event document")
	}
	return &doc, nil
}

func openDatabase(cfg config) (*sql.DB, error) {
	migrations, err := migrate.New("file://"+cfg.MigrationsDir, cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migration instance")
	}
	if err := migrations.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, errors.Wrap(err, "failed to apply migrations")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	return db, nil
}
