package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/avvvet/charge-services/internal/authorization"
	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"github.com/avvvet/charge-services/internal/chargesvc/store"
	"github.com/avvvet/charge-services/internal/comm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// amounts are money in a two decimal currency
const maxAmountDecimals = 2

type ChargeService struct {
	charges   ChargeStore
	cards     CardStore
	customers CustomerStore
	publisher EventPublisher
	now       func() time.Time
}

// NewChargeService wires the charge flow. publisher may be nil, in which
// case no events are emitted.
func NewChargeService(charges ChargeStore, cards CardStore, customers CustomerStore, publisher EventPublisher) *ChargeService {
	return &ChargeService{
		charges:   charges,
		cards:     cards,
		customers: customers,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create runs the simulated authorization for the card and stores the
// outcome. Declined charges are stored too; only lookup and validation
// failures return an error.
func (s *ChargeService) Create(ctx context.Context, req models.CreateCharge) (*models.Charge, error) {
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		return nil, malformed("monto must be greater than 0")
	}
	amount := decimal.NewFromFloat(req.Amount)
	if amount.Exponent() < -maxAmountDecimals {
		return nil, malformed("monto must have at most %d decimals", maxAmountDecimals)
	}
	cardID, err := ParseID("tarjeta_id", req.CardID)
	if err != nil {
		return nil, err
	}
	customerID, err := ParseID("cliente_id", req.CustomerID)
	if err != nil {
		return nil, err
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", req.CardID, err)
	}
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("customer %s: %w", req.CustomerID, err)
	}
	if card.CustomerID != customerID {
		return nil, ErrOwnershipMismatch
	}

	decision := authorization.Decide(card.Last4, amount)
	charge := models.NewCharge(card, req.Amount, decision, s.now())

	if err := s.charges.Create(ctx, charge); err != nil {
		return nil, fmt.Errorf("creating charge: %w", err)
	}

	log.Infof("charge %s on card %s: %s (%s)", charge.ID.Hex(), card.PANMasked, charge.Status, charge.ReasonCode)
	s.publish(comm.EventChargeCreated, charge, card.Last4, charge.AttemptedAt)

	return charge, nil
}

// Refund moves an approved charge to refunded exactly once.
func (s *ChargeService) Refund(ctx context.Context, rawID string) (*models.Charge, error) {
	id, err := ParseID("charge id", rawID)
	if err != nil {
		return nil, err
	}

	charge, err := s.charges.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("charge %s: %w", rawID, err)
	}
	if err := charge.CanRefund(); err != nil {
		return nil, err
	}

	refunded, err := s.charges.MarkRefunded(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			// lost a race with a concurrent refund
			return nil, models.ErrAlreadyRefunded
		}
		return nil, fmt.Errorf("charge %s: %w", rawID, err)
	}

	s.publish(comm.EventChargeRefunded, refunded, s.cardLast4(ctx, refunded.CardID), *refunded.RefundedAt)
	return refunded, nil
}

// History lists every charge of a customer, whatever its state.
func (s *ChargeService) History(ctx context.Context, rawCustomerID string) ([]*models.Charge, error) {
	customerID, err := ParseID("customer id", rawCustomerID)
	if err != nil {
		return nil, err
	}
	charges, err := s.charges.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("charge history of %s: %w", rawCustomerID, err)
	}
	return charges, nil
}

// cardLast4 is best effort; a card deleted after the charge leaves it
// empty.
func (s *ChargeService) cardLast4(ctx context.Context, cardID primitive.ObjectID) string {
	if s.publisher == nil {
		return ""
	}
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		log.Warnf("card %s for refund event: %v", cardID.Hex(), err)
		return ""
	}
	return card.Last4
}

func (s *ChargeService) publish(eventType string, c *models.Charge, last4 string, occurredAt time.Time) {
	if s.publisher == nil {
		return
	}
	ev := comm.ChargeEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		ChargeID:   c.ID.Hex(),
		CustomerID: c.CustomerID.Hex(),
		CardID:     c.CardID.Hex(),
		Last4:      last4,
		Amount:     c.Amount,
		Status:     string(c.Status),
		ReasonCode: c.ReasonCode,
		Refunded:   c.Refunded,
		OccurredAt: occurredAt.UTC(),
	}
	if err := s.publisher.PublishChargeEvent(ev); err != nil {
		log.Errorf("publishing %s for charge %s: %v", eventType, ev.ChargeID, err)
	}
}
