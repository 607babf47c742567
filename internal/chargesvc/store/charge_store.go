package store

import (
	"context"
	"errors"
	"time"

	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ChargeStore struct {
	coll collection[models.Charge]
}

func NewChargeStore(db *mongo.Database) *ChargeStore {
	return &ChargeStore{coll: collection[models.Charge]{db.Collection(ChargesCollection)}}
}

func (s *ChargeStore) Create(ctx context.Context, c *models.Charge) error {
	return s.coll.insert(ctx, c)
}

func (s *ChargeStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Charge, error) {
	return s.coll.findByID(ctx, id)
}

// MarkRefunded flips the refunded flag only while the charge is still an
// unrefunded approval. A charge that exists but no longer qualifies
// yields ErrConflict.
func (s *ChargeStore) MarkRefunded(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Charge, error) {
	at = at.UTC().Truncate(time.Millisecond)
	filter := bson.M{
		"_id":         id,
		"status":      models.StatusApproved,
		"reembolsado": false,
	}
	set := bson.M{
		"reembolsado":     true,
		"fecha_reembolso": at,
		"updated_at":      at,
	}

	charge, err := s.coll.findAndSet(ctx, filter, set)
	if errors.Is(err, ErrNotFound) {
		if _, getErr := s.coll.findByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrConflict
	}
	return charge, err
}

func (s *ChargeStore) ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.Charge, error) {
	return s.coll.find(ctx, bson.M{"cliente_id": customerID})
}
