package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/avvvet/charge-services/internal/comm"
	"github.com/avvvet/charge-services/internal/ledgersvc/db"
	"github.com/avvvet/charge-services/internal/ledgersvc/models"
	"github.com/avvvet/charge-services/internal/ledgersvc/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestLedgerStore runs against a real PostgreSQL.
// Skips unless POSTGRES_URL is provided.
func TestLedgerStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_URL")
	if dsn == "" {
		t.Skip("POSTGRES_URL not set; skipping postgres integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(dsn)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, db.Migrate(ctx, pool))

	s := store.NewLedgerStore(pool)
	customerID := "test-" + uuid.NewString()
	chargeID := uuid.NewString()

	created, err := models.EntryFromEvent(comm.ChargeEvent{
		ID: uuid.NewString(), Type: comm.EventChargeCreated, ChargeID: chargeID,
		CustomerID: customerID, CardID: "card", Amount: 250.75, Status: "approved",
		ReasonCode: "00", OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	ok, err := s.Append(ctx, created)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Append(ctx, created)
	require.NoError(t, err)
	require.False(t, ok)

	refunded, err := models.EntryFromEvent(comm.ChargeEvent{
		ID: uuid.NewString(), Type: comm.EventChargeRefunded, ChargeID: chargeID,
		CustomerID: customerID, CardID: "card", Amount: 250.75, Status: "approved",
		ReasonCode: "00", Refunded: true, OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	ok, err = s.Append(ctx, refunded)
	require.NoError(t, err)
	require.True(t, ok)

	sum, err := s.Summary(ctx, customerID)
	require.NoError(t, err)
	require.Equal(t, int64(2), sum.Entries)
	require.Equal(t, "250.75", sum.Debits.StringFixed(2))
	require.Equal(t, "0.00", sum.Net.StringFixed(2))

	entries, err := s.EntriesByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, created.EventID, entries[0].EventID)

	_, err = pool.Exec(ctx, `DELETE FROM charge_ledger WHERE customer_id = $1`, customerID)
	require.NoError(t, err)
}
