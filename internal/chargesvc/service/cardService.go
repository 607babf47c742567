package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"github.com/avvvet/charge-services/internal/luhn"
)

var ErrInvalidCardNumber = fmt.Errorf("%w: card number (PAN) fails the Luhn check", ErrMalformedInput)

type CardService struct {
	cards     CardStore
	customers CustomerStore
	now       func() time.Time
}

func NewCardService(cards CardStore, customers CustomerStore) *CardService {
	return &CardService{cards: cards, customers: customers, now: time.Now}
}

// Register validates the full PAN, confirms the owner exists and stores
// the masked card. The PAN itself is dropped here.
func (s *CardService) Register(ctx context.Context, req models.RegisterCard) (*models.Card, error) {
	pan := req.PAN
	if l := len(pan); l < models.MinPANLength || l > models.MaxPANLength {
		return nil, malformed("pan_completo must be %d..%d digits (got %d)", models.MinPANLength, models.MaxPANLength, l)
	}
	if !luhn.IsDigits(pan) {
		return nil, malformed("pan_completo must contain digits only")
	}
	if !luhn.Validate(pan) {
		return nil, ErrInvalidCardNumber
	}

	customerID, err := ParseID("cliente_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("customer %s: %w", req.CustomerID, err)
	}

	card := models.NewCard(customerID, pan, s.now())
	card.Alias = req.Alias
	card.HolderName = req.HolderName

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("registering card: %w", err)
	}
	return card, nil
}

func (s *CardService) Get(ctx context.Context, rawID string) (*models.Card, error) {
	id, err := ParseID("card id", rawID)
	if err != nil {
		return nil, err
	}
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", rawID, err)
	}
	return card, nil
}

// Update changes card metadata only. An empty update returns the card as
// it is.
func (s *CardService) Update(ctx context.Context, rawID string, u models.CardUpdate) (*models.Card, error) {
	if u.IsEmpty() {
		return s.Get(ctx, rawID)
	}
	id, err := ParseID("card id", rawID)
	if err != nil {
		return nil, err
	}
	card, err := s.cards.Update(ctx, id, u, s.now())
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", rawID, err)
	}
	return card, nil
}

func (s *CardService) Delete(ctx context.Context, rawID string) error {
	id, err := ParseID("card id", rawID)
	if err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, id); err != nil {
		return fmt.Errorf("card %s: %w", rawID, err)
	}
	return nil
}

func (s *CardService) ListByCustomer(ctx context.Context, rawCustomerID string) ([]*models.Card, error) {
	customerID, err := ParseID("customer id", rawCustomerID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing cards of %s: %w", rawCustomerID, err)
	}
	return cards, nil
}

// GenerateTestPAN produces a synthetic Luhn-valid PAN for test data.
func (s *CardService) GenerateTestPAN(prefix string, length int) (string, error) {
	if length < models.MinPANLength || length > models.MaxPANLength {
		return "", malformed("length must be %d..%d (got %d)", models.MinPANLength, models.MaxPANLength, length)
	}
	pan, err := luhn.Generate(prefix, length)
	if err != nil {
		return "", fmt.Errorf("generating pan: %w", err)
	}
	return pan, nil
}
