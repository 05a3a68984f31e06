package ledger

import (
	"context"
	"strings"
	"time"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"go.uber.org/zap"
)

func (e *Engine) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	snap, err := e.read(ctx, store.Customers)
	if err != nil {
		return nil, err
	}
	return nonNil(snap.Customers), nil
}

func (e *Engine) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	snap, err := e.read(ctx, store.Customers)
	if err != nil {
		return nil, err
	}
	i := snap.customerIndex(id)
	if i < 0 {
		return nil, ErrCustomerNotFound
	}
	customer := snap.Customers[i]
	return &customer, nil
}

// FindCustomerByEmail matches case-insensitively.
func (e *Engine) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	snap, err := e.read(ctx, store.Customers)
	if err != nil {
		return nil, err
	}
	for _, c := range snap.Customers {
		if strings.EqualFold(c.Email, strings.TrimSpace(email)) {
			return &c, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (e *Engine) CreateCustomer(ctx context.Context, fields models.CustomerFields) (*models.Customer, error) {
	var created models.Customer
	err := e.mutate(ctx, []store.EntitySet{store.Customers}, func(snap *Snapshot) error {
		var err error
		created, err = snap.createCustomer(fields, e.ids.NewId(), e.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Customer created",
		zap.String("customer_id", created.Id),
		zap.String("email", created.Email))
	return &created, nil
}

func (e *Engine) UpdateCustomer(ctx context.Context, id string, patch models.CustomerPatch) (*models.Customer, error) {
	var updated models.Customer
	err := e.mutate(ctx, []store.EntitySet{store.Customers}, func(snap *Snapshot) error {
		var err error
		updated, err = snap.updateCustomer(id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (e *Engine) DeleteCustomer(ctx context.Context, id string) error {
	err := e.mutate(ctx, []store.EntitySet{store.Customers, store.Accounts}, func(snap *Snapshot) error {
		return snap.deleteCustomer(id)
	})
	if err != nil {
		return err
	}

	zap.L().Info("Customer deleted", zap.String("customer_id", id))
	return nil
}

func (s *Snapshot) createCustomer(fields models.CustomerFields, id string, now time.Time) (models.Customer, error) {
	customer := models.Customer{
		Id:        id,
		FirstName: strings.TrimSpace(fields.FirstName),
		LastName:  strings.TrimSpace(fields.LastName),
		Email:     strings.TrimSpace(fields.Email),
		Phone:     strings.TrimSpace(fields.Phone),
		Address:   strings.TrimSpace(fields.Address),
		CreatedAt: now,
	}
	if err := validateCustomer(customer); err != nil {
		return models.Customer{}, err
	}

	s.Customers = append(s.Customers, customer)
	s.touch(store.Customers)
	return customer, nil
}

// updateCustomer merges patch over the stored record; id and createdAt never change.
func (s *Snapshot) updateCustomer(id string, patch models.CustomerPatch) (models.Customer, error) {
	i := s.customerIndex(id)
	if i < 0 {
		return models.Customer{}, ErrCustomerNotFound
	}

	customer := s.Customers[i]
	merge(&customer.FirstName, patch.FirstName)
	merge(&customer.LastName, patch.LastName)
	merge(&customer.Email, patch.Email)
	merge(&customer.Phone, patch.Phone)
	merge(&customer.Address, patch.Address)

	if err := validateCustomer(customer); err != nil {
		return models.Customer{}, err
	}

	s.Customers[i] = customer
	s.touch(store.Customers)
	return customer, nil
}

func (s *Snapshot) deleteCustomer(id string) error {
	for _, a := range s.Accounts {
		if a.CustomerId == id {
			return ErrCustomerHasAccounts
		}
	}

	i := s.customerIndex(id)
	if i < 0 {
		return ErrCustomerNotFound
	}

	s.Customers = append(s.Customers[:i], s.Customers[i+1:]...)
	s.touch(store.Customers)
	return nil
}

func validateCustomer(c models.Customer) error {
	if c.FirstName == "" || c.LastName == "" || c.Email == "" {
		return ErrCustomerFieldsRequired
	}
	return nil
}

func merge(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func nonNil[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}
