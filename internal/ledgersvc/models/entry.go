package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/charge-services/internal/comm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownEvent    = errors.New("unknown charge event")
	ErrAmountPrecision = errors.New("amount has more than two decimals")
)

// AmountScale matches the NUMERIC(18, 2) ledger columns.
const AmountScale = 2

// Entry is one row of the charge ledger. Dr holds money charged to the
// customer, Cr money given back.
type Entry struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	ChargeID   string          `json:"charge_id"`
	CustomerID string          `json:"customer_id"`
	CardID     string          `json:"card_id"`
	Dr         decimal.Decimal `json:"dr"`
	Cr         decimal.Decimal `json:"cr"`
	Status     string          `json:"status"`
	ReasonCode string          `json:"reason_code"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type Summary struct {
	CustomerID string          `json:"customer_id"`
	Debits     decimal.Decimal `json:"debits"`
	Credits    decimal.Decimal `json:"credits"`
	Net        decimal.Decimal `json:"net"`
	Entries    int64           `json:"entries"`
}

func NewSummary(customerID string, dr, cr decimal.Decimal, entries int64) Summary {
	return Summary{
		CustomerID: customerID,
		Debits:     dr,
		Credits:    cr,
		Net:        dr.Sub(cr),
		Entries:    entries,
	}
}

// EntryFromEvent derives the ledger row for ev. An approved charge debits
// its amount, a refund credits it and a declined charge is kept with
// zero amounts so the attempt still shows up.
func EntryFromEvent(ev comm.ChargeEvent) (*Entry, error) {
	if _, err := uuid.Parse(ev.ID); err != nil {
		return nil, fmt.Errorf("event id %q: %w", ev.ID, err)
	}
	if ev.ChargeID == "" || ev.CustomerID == "" {
		return nil, fmt.Errorf("event %s: missing charge or customer id", ev.ID)
	}

	e := &Entry{
		EventID:    ev.ID,
		EventType:  ev.Type,
		ChargeID:   ev.ChargeID,
		CustomerID: ev.CustomerID,
		CardID:     ev.CardID,
		Dr:         decimal.Zero,
		Cr:         decimal.Zero,
		Status:     ev.Status,
		ReasonCode: ev.ReasonCode,
		OccurredAt: ev.OccurredAt.UTC(),
	}

	amount := decimal.NewFromFloat(ev.Amount)
	if amount.Exponent() < -AmountScale {
		return nil, fmt.Errorf("event %s: %w: %s", ev.ID, ErrAmountPrecision, amount)
	}

	switch ev.Type {
	case comm.EventChargeCreated:
		if ev.Status == "approved" {
			e.Dr = amount
		}
	case comm.EventChargeRefunded:
		e.Cr = amount
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}

	return e, nil
}
