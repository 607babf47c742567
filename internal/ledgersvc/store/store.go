package store

import (
	"context"

	"github.com/avvvet/charge-services/internal/ledgersvc/models"
)

// Store persists ledger entries. Append reports false when the entry was
// already recorded, either by event id or by the same charge and event
// type.
type Store interface {
	Append(ctx context.Context, e *models.Entry) (bool, error)
	Summary(ctx context.Context, customerID string) (models.Summary, error)
	EntriesByCustomer(ctx context.Context, customerID string) ([]models.Entry, error)
}
