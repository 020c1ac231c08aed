package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/seyio/bankledger/internal/domain"
	"github.com/seyio/bankledger/internal/logging"
)

type customerRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	FindByName(ctx context.Context, name string) ([]domain.Customer, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Customer, error)
	Create(ctx context.Context, c *domain.Customer) error
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id string) error
}

type accountCounter interface {
	CountByCustomer(ctx context.Context, customerID string) (int, error)
}

type customerIDGenerator interface {
	CustomerID() (string, error)
}

type CustomerService struct {
	customers customerRepo
	accounts  accountCounter
	ids       customerIDGenerator
}

func NewCustomerService(customers customerRepo, accounts accountCounter, ids customerIDGenerator) *CustomerService {
	return &CustomerService{customers: customers, accounts: accounts, ids: ids}
}

func (s *CustomerService) Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	for attempt := 1; ; attempt++ {
		id, err := s.ids.CustomerID()
		if err != nil {
			return nil, fmt.Errorf("Create: %w", err)
		}
		customer.ID = id

		err = s.customers.Create(ctx, &customer)
		if err == nil {
			return &customer, nil
		}
		if !errors.Is(err, domain.ErrDuplicateKey) || attempt == maxCreateAttempts {
			return nil, fmt.Errorf("Create: %w", err)
		}
	}
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Get: %w", domain.ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("Get: %w", err)
	}
	return customer, nil
}

// Search matches by email when given, otherwise by name, otherwise lists all.
func (s *CustomerService) Search(ctx context.Context, name, email string) ([]domain.Customer, error) {
	var (
		customers []domain.Customer
		err       error
	)
	switch {
	case email != "":
		customers, err = s.customers.FindByEmail(ctx, email)
	case name != "":
		customers, err = s.customers.FindByName(ctx, name)
	default:
		customers, err = s.customers.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	return customers, nil
}

// Update applies the non-empty fields of updates onto the stored customer.
// Date of birth is immutable.
func (s *CustomerService) Update(ctx context.Context, id string, updates domain.Customer) (*domain.Customer, error) {
	if updates.DateOfBirth != "" {
		return nil, fmt.Errorf("Update: date of birth: %w", domain.ErrImmutableField)
	}

	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Update: %w", domain.ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("Update: %w", err)
	}

	if updates.FirstName != "" {
		customer.FirstName = updates.FirstName
	}
	if updates.LastName != "" {
		customer.LastName = updates.LastName
	}
	if updates.Address != "" {
		customer.Address = updates.Address
	}
	if updates.Email != "" {
		customer.Email = updates.Email
	}
	if updates.Phone != "" {
		customer.Phone = updates.Phone
	}
	if updates.SSN != "" {
		customer.SSN = updates.SSN
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	return customer, nil
}

// Delete removes the customer unless any account still links to it; deleting
// a linked customer would orphan account history.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	log := logging.FromContext(ctx)

	if _, err := s.customers.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("Delete: %w", domain.ErrCustomerNotFound)
		}
		return fmt.Errorf("Delete: %w", err)
	}

	linked, err := s.accounts.CountByCustomer(ctx, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if linked > 0 {
		return fmt.Errorf("Delete: %d linked: %w", linked, domain.ErrCustomerHasAccounts)
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	log.Info("customer deleted", "customer_id", id)
	return nil
}
