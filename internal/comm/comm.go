package comm

import (
	"encoding/json"
	"time"
)

// subject on which chargesvc publishes charge lifecycle events
const ChargeEventsSubject = "charge.events"

const (
	EventChargeCreated  = "charge.created"
	EventChargeRefunded = "charge.refunded"
)

// WSMessage is the envelope exchanged with websocket clients.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "watch", "charge.created"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid,omitempty"`
}

type WatchRequest struct {
	CustomerID string `json:"customer_id"`
}

type ChargeEvent struct {
	ID         string    `json:"id"` // event id, unique per publish
	Type       string    `json:"type"`
	ChargeID   string    `json:"charge_id"`
	CustomerID string    `json:"customer_id"`
	CardID     string    `json:"card_id"`
	Last4      string    `json:"last4,omitempty"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	ReasonCode string    `json:"reason_code"`
	Refunded   bool      `json:"refunded"`
	OccurredAt time.Time `json:"occurred_at"`
}
