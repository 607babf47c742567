package store

import (
	"context"
	"errors"

	"github.com/avvvet/charge-services/internal/db"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CustomersCollection = "clientes"
	CardsCollection     = "tarjetas"
	ChargesCollection   = "cobros"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means a conditional update found the document but its
	// current state no longer matched.
	ErrConflict = errors.New("conflict")
)

// EnsureIndexes creates the lookup indexes used by the list queries.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for _, coll := range []string{CardsCollection, ChargesCollection} {
		if err := db.CreateIndexForField(ctx, database, coll, "cliente_id"); err != nil {
			return err
		}
	}
	return nil
}
