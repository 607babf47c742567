package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/charge-services/internal/comm"
	"github.com/avvvet/charge-services/internal/ledgersvc/models"
	"github.com/avvvet/charge-services/internal/ledgersvc/store"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidCustomerID = errors.New("customer id is not a valid ObjectId")

type LedgerService struct {
	store store.Store
}

func NewLedgerService(s store.Store) *LedgerService {
	return &LedgerService{store: s}
}

// Record appends the ledger entry for ev. Redelivered events are ignored
// and reported as not recorded.
func (s *LedgerService) Record(ctx context.Context, ev comm.ChargeEvent) (bool, error) {
	e, err := models.EntryFromEvent(ev)
	if err != nil {
		return false, err
	}

	ok, err := s.store.Append(ctx, e)
	if err != nil {
		return false, fmt.Errorf("append %s for charge %s: %w", ev.Type, ev.ChargeID, err)
	}
	if !ok {
		log.Debugf("ledger: %s for charge %s already recorded", ev.Type, ev.ChargeID)
	}
	return ok, nil
}

func (s *LedgerService) Summary(ctx context.Context, customerID string) (models.Summary, error) {
	if !primitive.IsValidObjectID(customerID) {
		return models.Summary{}, ErrInvalidCustomerID
	}
	return s.store.Summary(ctx, customerID)
}

func (s *LedgerService) Entries(ctx context.Context, customerID string) ([]models.Entry, error) {
	if !primitive.IsValidObjectID(customerID) {
		return nil, ErrInvalidCustomerID
	}
	return s.store.EntriesByCustomer(ctx, customerID)
}
