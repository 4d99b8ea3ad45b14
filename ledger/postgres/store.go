package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"

	"github.com/imagestudio/billing-server/billing"
	pg "github.com/imagestudio/billing-server/database/postgres"
	"github.com/imagestudio/billing-server/ledger"
)

const purchasesTable = "iab_purchases"

type purchaseModel struct {
	ReceiptID string    `db:"receipt_id"`
	ItemType  string    `db:"item_type"`
	SKU       string    `db:"sku"`
	Token     string    `db:"token"`
	State     int       `db:"state"`
	CreatedAt time.Time `db:"created_at"`
}

type pgStore struct {
	db *sqlx.DB
}

func NewInPostgres(db *sql.DB) ledger.Store {
	return &pgStore{
		db: sqlx.NewDb(db, "pgx"),
	}
}

func (s *pgStore) reset() {
	_, err := s.db.ExecContext(context.Background(), `DELETE FROM `+purchasesTable)
	if err != nil {
		panic(err)
	}
}

func (s *pgStore) CreatePurchase(ctx context.Context, record *ledger.Record) error {
	if len(record.ReceiptID) == 0 {
		return errors.New("receipt id is required")
	}
	if record.State == ledger.StateUnknown {
		return errors.New("state must be set")
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO `+purchasesTable+` (receipt_id, item_type, sku, token, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		pg.Encode(record.ReceiptID),
		string(record.ItemType),
		record.SKU,
		record.Token,
		int(record.State),
		createdAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ledger.ErrExists
	}
	return err
}

func (s *pgStore) GetPurchase(ctx context.Context, receiptID []byte) (*ledger.Record, error) {
	var m purchaseModel
	query := `SELECT receipt_id, item_type, sku, token, state, created_at FROM ` +
		purchasesTable + ` WHERE receipt_id = $1`
	err := s.db.GetContext(ctx, &m, query, pg.Encode(receiptID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}

	return fromModel(&m)
}

func fromModel(m *purchaseModel) (*ledger.Record, error) {
	receiptID, err := pg.Decode(m.ReceiptID)
	if err != nil {
		return nil, err
	}

	return &ledger.Record{
		ReceiptID: receiptID,
		ItemType:  billing.ItemType(m.ItemType),
		SKU:       m.SKU,
		Token:     m.Token,
		State:     ledger.State(m.State),
		CreatedAt: m.CreatedAt,
	}, nil
}
