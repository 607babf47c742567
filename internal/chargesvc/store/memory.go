package store

import (
	"context"
	"sync"
	"time"

	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memCollection keeps documents by value so callers never share state
// with the store. Used when no MongoDB is available (tests, local runs).
type memCollection[T any] struct {
	mu    sync.RWMutex
	docs  map[primitive.ObjectID]T
	order []primitive.ObjectID
	idOf  func(*T) primitive.ObjectID
}

func newMemCollection[T any](idOf func(*T) primitive.ObjectID) *memCollection[T] {
	return &memCollection[T]{
		docs: make(map[primitive.ObjectID]T),
		idOf: idOf,
	}
}

func (m *memCollection[T]) insert(doc *T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.idOf(doc)
	if _, ok := m.docs[id]; !ok {
		m.order = append(m.order, id)
	}
	m.docs[id] = *doc
}

func (m *memCollection[T]) findByID(id primitive.ObjectID) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &doc, nil
}

// update runs fn on a copy under the write lock; the copy is stored only
// when fn succeeds.
func (m *memCollection[T]) update(id primitive.ObjectID, fn func(*T) error) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&doc); err != nil {
		return nil, err
	}
	m.docs[id] = doc
	out := doc
	return &out, nil
}

func (m *memCollection[T]) deleteByID(id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memCollection[T]) find(match func(*T) bool) []*T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*T{}
	for _, id := range m.order {
		doc := m.docs[id]
		if match(&doc) {
			out = append(out, &doc)
		}
	}
	return out
}

type MemoryCustomerStore struct {
	coll *memCollection[models.Customer]
}

func NewMemoryCustomerStore() *MemoryCustomerStore {
	return &MemoryCustomerStore{coll: newMemCollection(func(c *models.Customer) primitive.ObjectID { return c.ID })}
}

func (s *MemoryCustomerStore) Create(_ context.Context, c *models.Customer) error {
	s.coll.insert(c)
	return nil
}

func (s *MemoryCustomerStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Customer, error) {
	return s.coll.findByID(id)
}

func (s *MemoryCustomerStore) Update(_ context.Context, id primitive.ObjectID, u models.CustomerUpdate, now time.Time) (*models.Customer, error) {
	return s.coll.update(id, func(c *models.Customer) error {
		u.Apply(c)
		c.Touch(now)
		return nil
	})
}

func (s *MemoryCustomerStore) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.coll.deleteByID(id)
}

type MemoryCardStore struct {
	coll *memCollection[models.Card]
}

func NewMemoryCardStore() *MemoryCardStore {
	return &MemoryCardStore{coll: newMemCollection(func(c *models.Card) primitive.ObjectID { return c.ID })}
}

func (s *MemoryCardStore) Create(_ context.Context, c *models.Card) error {
	s.coll.insert(c)
	return nil
}

func (s *MemoryCardStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Card, error) {
	return s.coll.findByID(id)
}

func (s *MemoryCardStore) Update(_ context.Context, id primitive.ObjectID, u models.CardUpdate, now time.Time) (*models.Card, error) {
	return s.coll.update(id, func(c *models.Card) error {
		u.Apply(c)
		c.Touch(now)
		return nil
	})
}

func (s *MemoryCardStore) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.coll.deleteByID(id)
}

func (s *MemoryCardStore) ListByCustomer(_ context.Context, customerID primitive.ObjectID) ([]*models.Card, error) {
	return s.coll.find(func(c *models.Card) bool { return c.CustomerID == customerID }), nil
}

type MemoryChargeStore struct {
	coll *memCollection[models.Charge]
}

func NewMemoryChargeStore() *MemoryChargeStore {
	return &MemoryChargeStore{coll: newMemCollection(func(c *models.Charge) primitive.ObjectID { return c.ID })}
}

func (s *MemoryChargeStore) Create(_ context.Context, c *models.Charge) error {
	s.coll.insert(c)
	return nil
}

func (s *MemoryChargeStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Charge, error) {
	return s.coll.findByID(id)
}

func (s *MemoryChargeStore) MarkRefunded(_ context.Context, id primitive.ObjectID, at time.Time) (*models.Charge, error) {
	return s.coll.update(id, func(c *models.Charge) error {
		if c.Refund(at) != nil {
			return ErrConflict
		}
		return nil
	})
}

func (s *MemoryChargeStore) ListByCustomer(_ context.Context, customerID primitive.ObjectID) ([]*models.Charge, error) {
	return s.coll.find(func(c *models.Charge) bool { return c.CustomerID == customerID }), nil
}
