package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seyio/bankledger/internal/domain"
	"github.com/seyio/bankledger/internal/logging"
)

// Transfer moves details.Amount from the source account to the destination
// account. Validation failures return before any write is attempted; a
// storage failure during commit rolls the whole unit back and surfaces as
// domain.ErrStorage.
func (s *Service) Transfer(ctx context.Context, details domain.TransferDetails) error {
	log := logging.FromContext(ctx)

	if err := validateRequest(details); err != nil {
		return fmt.Errorf("Transfer: %w", err)
	}

	source, dest, err := s.resolveAccounts(ctx, details)
	if err != nil {
		return fmt.Errorf("Transfer: %w", err)
	}

	if err := validateAccounts(details, source, dest); err != nil {
		return fmt.Errorf("Transfer: %w", err)
	}

	// The committed id pair shares one random suffix; regenerate and retry
	// the whole locked sequence if the suffix collides with an existing row.
	var commitErr error
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		commitErr = s.commit(ctx, details)
		if !errors.Is(commitErr, domain.ErrDuplicateKey) {
			break
		}
		log.Warn("transaction id collision, retrying transfer",
			"attempt", attempt,
			"from_account", details.FromAccountID,
			"to_account", details.ToAccountID,
		)
	}
	if commitErr != nil {
		return fmt.Errorf("Transfer: %w", commitErr)
	}

	log.Info("transfer committed",
		"from_account", details.FromAccountID,
		"to_account", details.ToAccountID,
		"amount", details.Amount,
	)
	return nil
}

func (s *Service) resolveAccounts(ctx context.Context, details domain.TransferDetails) (*domain.Account, *domain.Account, error) {
	source, err := s.accounts.GetByID(ctx, details.FromAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("resolveAccounts: source: %w", domain.ErrAccountNotFound)
		}
		return nil, nil, fmt.Errorf("resolveAccounts: source: %w", err)
	}

	dest, err := s.accounts.GetByID(ctx, details.ToAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("resolveAccounts: destination: %w", domain.ErrAccountNotFound)
		}
		return nil, nil, fmt.Errorf("resolveAccounts: destination: %w", err)
	}

	return source, dest, nil
}

func validateRequest(details domain.TransferDetails) error {
	if details.FromAccountID == "" || details.ToAccountID == "" {
		return fmt.Errorf("validateRequest: missing account id: %w", domain.ErrInvalidRequest)
	}
	if details.FromAccountID == details.ToAccountID {
		return fmt.Errorf("validateRequest: transfer to same account: %w", domain.ErrInvalidRequest)
	}
	if !details.Amount.IsPositive() {
		return fmt.Errorf("validateRequest: non-positive amount: %w", domain.ErrInvalidRequest)
	}
	return nil
}

func validateAccounts(details domain.TransferDetails, source, dest *domain.Account) error {
	if source.AccountType == domain.AccountTypeLoan {
		return fmt.Errorf("validateAccounts: %w", domain.ErrIneligibleSource)
	}
	if source.Balance.Sub(details.Amount).IsNegative() {
		return fmt.Errorf("validateAccounts: %w", domain.ErrInsufficientFunds)
	}
	return nil
}

// creditedBalance applies a credit in the destination account's favor: a
// credit to a loan account pays down outstanding principal.
func creditedBalance(dest *domain.Account, amount decimal.Decimal) decimal.Decimal {
	if dest.AccountType == domain.AccountTypeLoan {
		return dest.Balance.Sub(amount)
	}
	return dest.Balance.Add(amount)
}

func (s *Service) commit(ctx context.Context, details domain.TransferDetails) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit: begin tx: %w: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback()

	locked, err := lockAccountsInOrder(ctx, tx, s.accounts, details.FromAccountID, details.ToAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("commit: %w", domain.ErrAccountNotFound)
		}
		return fmt.Errorf("commit: %w: %w", domain.ErrStorage, err)
	}

	source, dest := locked[details.FromAccountID], locked[details.ToAccountID]

	// Balances may have moved between the unlocked read and the row lock;
	// the locked state is the one that counts.
	if err := validateAccounts(details, source, dest); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	sourceAfter := source.Balance.Sub(details.Amount)
	destAfter := creditedBalance(dest, details.Amount)

	suffix, err := s.ids.TransferSuffix()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	postedOn := time.Now().UTC()

	debit := &domain.Transaction{
		ID:              domain.TransactionTypeDebit.Prefix() + suffix,
		AccountID:       source.ID,
		TransactionType: domain.TransactionTypeDebit,
		Amount:          details.Amount,
		BalanceBefore:   source.Balance,
		BalanceAfter:    sourceAfter,
		PostedOn:        postedOn,
	}
	if err := s.transactions.Create(ctx, tx, debit); err != nil {
		return fmt.Errorf("commit: debit: %w", storageFailure(err))
	}

	credit := &domain.Transaction{
		ID:              domain.TransactionTypeCredit.Prefix() + suffix,
		AccountID:       dest.ID,
		TransactionType: domain.TransactionTypeCredit,
		Amount:          details.Amount,
		BalanceBefore:   dest.Balance,
		BalanceAfter:    destAfter,
		PostedOn:        postedOn,
	}
	if err := s.transactions.Create(ctx, tx, credit); err != nil {
		return fmt.Errorf("commit: credit: %w", storageFailure(err))
	}

	// Both rows are held FOR UPDATE and nothing else writes balances, so the
	// version check in UpdateBalance only trips if some future path updates a
	// balance without taking the row lock.
	if err := s.accounts.UpdateBalance(ctx, tx, source.ID, sourceAfter, source.Version+1); err != nil {
		return fmt.Errorf("commit: update source: %w", storageFailure(err))
	}
	if err := s.accounts.UpdateBalance(ctx, tx, dest.ID, destAfter, dest.Version+1); err != nil {
		return fmt.Errorf("commit: update destination: %w", storageFailure(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// storageFailure marks a mid-commit error as a retryable storage fault.
// Duplicate-key and version conflicts keep their own identity so the retry
// loop and the HTTP mapping can react to them.
func storageFailure(err error) error {
	if errors.Is(err, domain.ErrDuplicateKey) || errors.Is(err, domain.ErrVersionConflict) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

// lockAccountsInOrder takes row locks in lexicographic id order so that two
// transfers crossing the same pair cannot deadlock.
func lockAccountsInOrder(ctx context.Context, tx *sql.Tx, accounts accountRepo, ids ...string) (map[string]*domain.Account, error) {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	result := make(map[string]*domain.Account, len(ids))
	for _, id := range sorted {
		acct, err := accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		result[id] = acct
	}
	return result, nil
}
