package store

import (
	"context"
	"time"

	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CustomerStore struct {
	coll collection[models.Customer]
}

func NewCustomerStore(db *mongo.Database) *CustomerStore {
	return &CustomerStore{coll: collection[models.Customer]{db.Collection(CustomersCollection)}}
}

func (s *CustomerStore) Create(ctx context.Context, c *models.Customer) error {
	return s.coll.insert(ctx, c)
}

func (s *CustomerStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	return s.coll.findByID(ctx, id)
}

func (s *CustomerStore) Update(ctx context.Context, id primitive.ObjectID, u models.CustomerUpdate, now time.Time) (*models.Customer, error) {
	set := u.Fields()
	set["updated_at"] = now.UTC().Truncate(time.Millisecond)
	return s.coll.findAndSet(ctx, bson.M{"_id": id}, set)
}

func (s *CustomerStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.coll.deleteByID(ctx, id)
}
