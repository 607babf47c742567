package store

import (
	"context"
	"time"

	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CardStore struct {
	coll collection[models.Card]
}

func NewCardStore(db *mongo.Database) *CardStore {
	return &CardStore{coll: collection[models.Card]{db.Collection(CardsCollection)}}
}

func (s *CardStore) Create(ctx context.Context, c *models.Card) error {
	return s.coll.insert(ctx, c)
}

func (s *CardStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Card, error) {
	return s.coll.findByID(ctx, id)
}

func (s *CardStore) Update(ctx context.Context, id primitive.ObjectID, u models.CardUpdate, now time.Time) (*models.Card, error) {
	set := u.Fields()
	set["updated_at"] = now.UTC().Truncate(time.Millisecond)
	return s.coll.findAndSet(ctx, bson.M{"_id": id}, set)
}

func (s *CardStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.coll.deleteByID(ctx, id)
}

func (s *CardStore) ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.Card, error) {
	return s.coll.find(ctx, bson.M{"cliente_id": customerID})
}
