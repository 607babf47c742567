package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/avvvet/charge-services/internal/comm"
	"github.com/avvvet/charge-services/internal/ledgersvc/service"
	"github.com/avvvet/charge-services/internal/ledgersvc/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHandleEvent(t *testing.T) {
	ledger := service.NewLedgerService(store.NewMemoryStore())
	b := NewBroker(nil, ledger)

	customer := primitive.NewObjectID().Hex()
	payload, err := json.Marshal(comm.ChargeEvent{
		ID:         uuid.NewString(),
		Type:       comm.EventChargeCreated,
		ChargeID:   primitive.NewObjectID().Hex(),
		CustomerID: customer,
		CardID:     primitive.NewObjectID().Hex(),
		Amount:     42.10,
		Status:     "approved",
		ReasonCode: "00",
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	require.True(t, b.HandleEvent(payload))
	require.False(t, b.HandleEvent(payload), "redelivery must not add a row")
	require.False(t, b.HandleEvent([]byte("{not json")))

	sum, err := ledger.Summary(context.Background(), customer)
	require.NoError(t, err)
	require.Equal(t, "42.10", sum.Net.StringFixed(2))
}
