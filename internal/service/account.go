package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seyio/bankledger/internal/domain"
	"github.com/seyio/bankledger/internal/logging"
)

// maxCreateAttempts bounds id regeneration when a freshly generated account
// id collides with an existing row.
const maxCreateAttempts = 3

type accountRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	LinkCustomer(ctx context.Context, accountID, customerID string) error
	Delete(ctx context.Context, id string) error
}

type transactionLister interface {
	ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

type customerChecker interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type accountIDGenerator interface {
	AccountID(t domain.AccountType) (string, error)
}

type AccountService struct {
	accounts     accountRepo
	transactions transactionLister
	customers    customerChecker
	ids          accountIDGenerator
}

func NewAccountService(accounts accountRepo, transactions transactionLister, customers customerChecker, ids accountIDGenerator) *AccountService {
	return &AccountService{
		accounts:     accounts,
		transactions: transactions,
		customers:    customers,
		ids:          ids,
	}
}

// Open creates an account of the given type with an opening balance. The id
// is generated here; a collision with an existing id is retried with a fresh
// one.
func (s *AccountService) Open(ctx context.Context, accountType domain.AccountType, balance decimal.Decimal) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if !accountType.IsValid() {
		return nil, fmt.Errorf("Open: %w", domain.ErrInvalidAccountType)
	}
	if !balance.IsPositive() {
		return nil, fmt.Errorf("Open: %w", domain.ErrInvalidBalance)
	}

	var account *domain.Account
	for attempt := 1; ; attempt++ {
		id, err := s.ids.AccountID(accountType)
		if err != nil {
			return nil, fmt.Errorf("Open: %w", err)
		}

		account = &domain.Account{
			ID:          id,
			AccountType: accountType,
			Balance:     balance,
			Version:     1,
			CreatedOn:   time.Now().UTC(),
		}

		err = s.accounts.Create(ctx, account)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateKey) || attempt == maxCreateAttempts {
			return nil, fmt.Errorf("Open: %w", err)
		}
	}

	log.Info("account opened",
		"account_id", account.ID,
		"account_type", account.AccountType,
	)
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Get: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("Get: %w", err)
	}
	return account, nil
}

func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return accounts, nil
}

// Transactions returns the postings recorded against the account, oldest
// first.
func (s *AccountService) Transactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Transactions: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("Transactions: %w", err)
	}

	transactions, err := s.transactions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("Transactions: %w", err)
	}
	return transactions, nil
}

// LinkCustomer attaches the account to a customer. Both sides must exist.
func (s *AccountService) LinkCustomer(ctx context.Context, accountID, customerID string) error {
	log := logging.FromContext(ctx)

	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("LinkCustomer: %w", domain.ErrAccountNotFound)
		}
		return fmt.Errorf("LinkCustomer: %w", err)
	}
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("LinkCustomer: %w", domain.ErrCustomerNotFound)
		}
		return fmt.Errorf("LinkCustomer: %w", err)
	}

	if err := s.accounts.LinkCustomer(ctx, accountID, customerID); err != nil {
		return fmt.Errorf("LinkCustomer: %w", err)
	}

	log.Info("account linked to customer",
		"account_id", accountID,
		"customer_id", customerID,
	)
	return nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("Delete: %w", domain.ErrAccountNotFound)
		}
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
