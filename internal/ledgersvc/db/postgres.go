package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS charge_ledger (
	id          BIGSERIAL PRIMARY KEY,
	event_id    UUID NOT NULL UNIQUE,
	event_type  TEXT NOT NULL,
	charge_id   TEXT NOT NULL,
	customer_id TEXT NOT NULL,
	card_id     TEXT NOT NULL,
	dr          NUMERIC(18, 2) NOT NULL DEFAULT 0,
	cr          NUMERIC(18, 2) NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	reason_code TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS charge_ledger_charge_event_idx ON charge_ledger (charge_id, event_type);
CREATE INDEX IF NOT EXISTS charge_ledger_customer_idx ON charge_ledger (customer_id);
`

// Connect initializes the connection pool
func Connect(dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	// Try pinging to make sure it's valid
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Migrate creates the ledger table and its indexes when missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
