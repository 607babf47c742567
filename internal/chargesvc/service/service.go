package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"github.com/avvvet/charge-services/internal/comm"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMalformedInput    = errors.New("malformed input")
	ErrInvalidID         = fmt.Errorf("%w: invalid id", ErrMalformedInput)
	ErrOwnershipMismatch = errors.New("card does not belong to the given customer")
)

type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	Update(ctx context.Context, id primitive.ObjectID, u models.CustomerUpdate, now time.Time) (*models.Customer, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CardStore interface {
	Create(ctx context.Context, c *models.Card) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Card, error)
	Update(ctx context.Context, id primitive.ObjectID, u models.CardUpdate, now time.Time) (*models.Card, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.Card, error)
}

type ChargeStore interface {
	Create(ctx context.Context, c *models.Charge) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Charge, error)
	MarkRefunded(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Charge, error)
	ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.Charge, error)
}

// EventPublisher delivers charge events to other services.
type EventPublisher interface {
	PublishChargeEvent(ev comm.ChargeEvent) error
}

// ParseID turns a client supplied identifier into an ObjectID. A bad
// identifier is a client error, never a server fault.
func ParseID(field, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s %q", ErrInvalidID, field, raw)
	}
	return id, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}
