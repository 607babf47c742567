package store

import (
	"context"
	"sync"

	"github.com/avvvet/charge-services/internal/ledgersvc/models"
	"github.com/shopspring/decimal"
)

// MemoryStore keeps the ledger in process with the same uniqueness rules
// as the charge_ledger table.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []models.Entry
	events  map[string]struct{}
	charges map[[2]string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:  map[string]struct{}{},
		charges: map[[2]string]struct{}{},
	}
}

func (s *MemoryStore) Append(_ context.Context, e *models.Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]string{e.ChargeID, e.EventType}
	if _, ok := s.events[e.EventID]; ok {
		return false, nil
	}
	if _, ok := s.charges[key]; ok {
		return false, nil
	}

	// same rounding the NUMERIC(18, 2) columns apply
	row := *e
	row.Dr = row.Dr.Round(models.AmountScale)
	row.Cr = row.Cr.Round(models.AmountScale)

	s.events[e.EventID] = struct{}{}
	s.charges[key] = struct{}{}
	s.entries = append(s.entries, row)
	return true, nil
}

func (s *MemoryStore) Summary(_ context.Context, customerID string) (models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dr, cr := decimal.Zero, decimal.Zero
	var n int64
	for _, e := range s.entries {
		if e.CustomerID != customerID {
			continue
		}
		dr = dr.Add(e.Dr)
		cr = cr.Add(e.Cr)
		n++
	}
	return models.NewSummary(customerID, dr, cr, n), nil
}

func (s *MemoryStore) EntriesByCustomer(_ context.Context, customerID string) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Entry{}
	for _, e := range s.entries {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}
