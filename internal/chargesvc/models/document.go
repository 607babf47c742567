package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document holds the fields every stored entity carries.
type Document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// NewDocument stamps a fresh identifier and timestamps.
func NewDocument(now time.Time) Document {
	now = now.UTC().Truncate(time.Millisecond) // mongo stores millisecond precision
	return Document{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d *Document) Touch(now time.Time) {
	d.UpdatedAt = now.UTC().Truncate(time.Millisecond)
}
