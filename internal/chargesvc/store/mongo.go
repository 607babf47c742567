package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection wraps the handful of single-document operations the stores need.
type collection[T any] struct {
	c *mongo.Collection
}

func (c collection[T]) insert(ctx context.Context, doc *T) error {
	if _, err := c.c.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s: %w", c.c.Name(), err)
	}
	return nil
}

func (c collection[T]) findByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var out T
	err := c.c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s %s: %w", c.c.Name(), id.Hex(), err)
	}
	return &out, nil
}

// findAndSet applies $set atomically to the single document matching filter
// and returns it after the update.
func (c collection[T]) findAndSet(ctx context.Context, filter bson.M, set bson.M) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out T
	err := c.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update %s: %w", c.c.Name(), err)
	}
	return &out, nil
}

func (c collection[T]) deleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", c.c.Name(), id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c collection[T]) find(ctx context.Context, filter bson.M) ([]*T, error) {
	cur, err := c.c.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.c.Name(), err)
	}
	defer cur.Close(ctx)

	var out []*T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.c.Name(), err)
	}
	if out == nil {
		out = []*T{}
	}
	return out, nil
}
