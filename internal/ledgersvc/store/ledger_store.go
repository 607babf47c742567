package store

import (
	"context"

	"github.com/avvvet/charge-services/internal/ledgersvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type LedgerStore struct {
	db *pgxpool.Pool
}

func NewLedgerStore(db *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Append(ctx context.Context, e *models.Entry) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        INSERT INTO charge_ledger
            (event_id, event_type, charge_id, customer_id, card_id, dr, cr, status, reason_code, occurred_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT DO NOTHING
    `, e.EventID, e.EventType, e.ChargeID, e.CustomerID, e.CardID,
		e.Dr, e.Cr, e.Status, e.ReasonCode, e.OccurredAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *LedgerStore) Summary(ctx context.Context, customerID string) (models.Summary, error) {
	var totalDr, totalCr decimal.Decimal
	var count int64

	err := s.db.QueryRow(ctx, `
        SELECT
            COALESCE(SUM(dr), 0),
            COALESCE(SUM(cr), 0),
            COUNT(*)
        FROM charge_ledger
        WHERE customer_id = $1
    `, customerID).Scan(&totalDr, &totalCr, &count)
	if err != nil {
		return models.Summary{}, err
	}

	return models.NewSummary(customerID, totalDr, totalCr, count), nil
}

func (s *LedgerStore) EntriesByCustomer(ctx context.Context, customerID string) ([]models.Entry, error) {
	rows, err := s.db.Query(ctx, `
        SELECT event_id::text, event_type, charge_id, customer_id, card_id,
               dr, cr, status, reason_code, occurred_at
        FROM charge_ledger
        WHERE customer_id = $1
        ORDER BY occurred_at, id
    `, customerID)
	if err != nil {
		return nil, err
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Entry, error) {
		var e models.Entry
		err := row.Scan(&e.EventID, &e.EventType, &e.ChargeID, &e.CustomerID, &e.CardID,
			&e.Dr, &e.Cr, &e.Status, &e.ReasonCode, &e.OccurredAt)
		return e, err
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}
