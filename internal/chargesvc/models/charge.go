package models

import (
	"errors"
	"time"

	"github.com/avvvet/charge-services/internal/authorization"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrIllegalTransition = errors.New("cannot refund a declined charge")
	ErrAlreadyRefunded   = errors.New("charge has already been refunded")
)

type ChargeStatus string

const (
	StatusApproved ChargeStatus = ChargeStatus(authorization.Approved)
	StatusDeclined ChargeStatus = ChargeStatus(authorization.Declined)
)

// ChargeState is the lifecycle position of a charge. It is derived from
// the stored status and refunded flag, never stored itself.
type ChargeState string

const (
	StateApproved ChargeState = "approved"
	StateDeclined ChargeState = "declined"
	StateRefunded ChargeState = "refunded"
)

type Charge struct {
	Document    `bson:",inline"`
	CustomerID  primitive.ObjectID `bson:"cliente_id" json:"cliente_id"`
	CardID      primitive.ObjectID `bson:"tarjeta_id" json:"tarjeta_id"`
	Amount      float64            `bson:"monto" json:"monto"`
	AttemptedAt time.Time          `bson:"fecha_intento" json:"fecha_intento"`
	Status      ChargeStatus       `bson:"status" json:"status"`
	ReasonCode  string             `bson:"codigo_motivo" json:"codigo_motivo"`
	Refunded    bool               `bson:"reembolsado" json:"reembolsado"`
	RefundedAt  *time.Time         `bson:"fecha_reembolso,omitempty" json:"fecha_reembolso,omitempty"`
}

type CreateCharge struct {
	CardID     string  `json:"tarjeta_id"`
	CustomerID string  `json:"cliente_id"`
	Amount     float64 `json:"monto"`
}

// NewCharge settles the created state into approved or declined using the
// authorization decision. Status and reason code never change afterwards.
func NewCharge(card *Card, amount float64, decision authorization.Decision, now time.Time) *Charge {
	doc := NewDocument(now)
	return &Charge{
		Document:    doc,
		CustomerID:  card.CustomerID,
		CardID:      card.ID,
		Amount:      amount,
		AttemptedAt: doc.CreatedAt,
		Status:      ChargeStatus(decision.Outcome),
		ReasonCode:  decision.ReasonCode,
	}
}

func (c *Charge) State() ChargeState {
	switch {
	case c.Status == StatusDeclined:
		return StateDeclined
	case c.Refunded:
		return StateRefunded
	default:
		return StateApproved
	}
}

// CanRefund reports the transition error a refund would hit, if any.
func (c *Charge) CanRefund() error {
	switch c.State() {
	case StateDeclined:
		return ErrIllegalTransition
	case StateRefunded:
		return ErrAlreadyRefunded
	}
	return nil
}

// Refund moves an approved charge to refunded. On error the charge is
// left untouched.
func (c *Charge) Refund(now time.Time) error {
	if err := c.CanRefund(); err != nil {
		return err
	}
	at := now.UTC().Truncate(time.Millisecond)
	c.Refunded = true
	c.RefundedAt = &at
	c.UpdatedAt = at
	return nil
}
