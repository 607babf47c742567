package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/avvvet/charge-services/internal/chargesvc/models"
)

type CustomerService struct {
	store CustomerStore
	now   func() time.Time
}

func NewCustomerService(store CustomerStore) *CustomerService {
	return &CustomerService{store: store, now: time.Now}
}

func (s *CustomerService) Create(ctx context.Context, req models.CreateCustomer) (*models.Customer, error) {
	if err := validateCustomer(&req.Name, &req.Email, &req.Phone); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Document: models.NewDocument(s.now()),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := s.store.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, rawID string) (*models.Customer, error) {
	id, err := ParseID("customer id", rawID)
	if err != nil {
		return nil, err
	}
	customer, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer %s: %w", rawID, err)
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, rawID string, u models.CustomerUpdate) (*models.Customer, error) {
	id, err := ParseID("customer id", rawID)
	if err != nil {
		return nil, err
	}
	if u.IsEmpty() {
		return nil, malformed("no fields to update")
	}
	if err := validateCustomer(u.Name, u.Email, u.Phone); err != nil {
		return nil, err
	}

	customer, err := s.store.Update(ctx, id, u, s.now())
	if err != nil {
		return nil, fmt.Errorf("customer %s: %w", rawID, err)
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, rawID string) error {
	id, err := ParseID("customer id", rawID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("customer %s: %w", rawID, err)
	}
	return nil
}

// validateCustomer checks the fields that are present; nil means absent.
func validateCustomer(name, email, phone *string) error {
	if name != nil && strings.TrimSpace(*name) == "" {
		return malformed("nombre is required")
	}
	if email != nil {
		addr, err := mail.ParseAddress(*email)
		if err != nil || addr.Address != *email {
			return malformed("email %q is not a valid address", *email)
		}
	}
	if phone != nil && strings.TrimSpace(*phone) == "" {
		return malformed("telefono is required")
	}
	return nil
}
