package store

import (
	"context"
	"testing"
	"time"

	"github.com/avvvet/charge-services/internal/comm"
	"github.com/avvvet/charge-services/internal/ledgersvc/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func entry(t *testing.T, typ, status, chargeID, customerID string, amount float64) *models.Entry {
	t.Helper()
	e, err := models.EntryFromEvent(comm.ChargeEvent{
		ID:         uuid.New().String(),
		Type:       typ,
		ChargeID:   chargeID,
		CustomerID: customerID,
		CardID:     "card",
		Amount:     amount,
		Status:     status,
		ReasonCode: "00",
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	return e
}

func TestMemoryStore_AppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	e := entry(t, comm.EventChargeCreated, "approved", "ch1", "cu1", 100)
	ok, err := s.Append(ctx, e)
	require.NoError(t, err)
	require.True(t, ok)

	// same event redelivered
	ok, err = s.Append(ctx, e)
	require.NoError(t, err)
	require.False(t, ok)

	// same charge and type under a new event id
	ok, err = s.Append(ctx, entry(t, comm.EventChargeCreated, "approved", "ch1", "cu1", 100))
	require.NoError(t, err)
	require.False(t, ok)

	entries, err := s.EntriesByCustomer(ctx, "cu1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMemoryStore_Summary(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, e := range []*models.Entry{
		entry(t, comm.EventChargeCreated, "approved", "ch1", "cu1", 100.50),
		entry(t, comm.EventChargeCreated, "approved", "ch2", "cu1", 20),
		entry(t, comm.EventChargeCreated, "declined", "ch3", "cu1", 5000),
		entry(t, comm.EventChargeRefunded, "approved", "ch2", "cu1", 20),
		entry(t, comm.EventChargeCreated, "approved", "ch4", "cu2", 7),
	} {
		_, err := s.Append(ctx, e)
		require.NoError(t, err)
	}

	sum, err := s.Summary(ctx, "cu1")
	require.NoError(t, err)
	require.Equal(t, int64(4), sum.Entries)
	require.True(t, decimal.RequireFromString("120.50").Equal(sum.Debits))
	require.True(t, decimal.RequireFromString("20").Equal(sum.Credits))
	require.Equal(t, "100.50", sum.Net.StringFixed(2))

	empty, err := s.Summary(ctx, "nobody")
	require.NoError(t, err)
	require.True(t, empty.Net.IsZero())

	none, err := s.EntriesByCustomer(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestMemoryStore_RoundsLikeNumericColumns(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	e := entry(t, comm.EventChargeCreated, "approved", "ch1", "cu1", 10)
	e.Dr = decimal.RequireFromString("100.999")
	_, err := s.Append(ctx, e)
	require.NoError(t, err)

	sum, err := s.Summary(ctx, "cu1")
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("101").Equal(sum.Debits), "debits %s", sum.Debits)
}
