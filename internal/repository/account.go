package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/seyio/bankledger/internal/domain"
)

const accountColumns = `id, account_type, balance, version, customer_id, created_on`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_on`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE customer_id = $1 ORDER BY created_on`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByCustomer: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (r *AccountRepository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE customer_id = $1`, customerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("CountByCustomer: %w", err)
	}
	return count, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, account_type, balance, version, customer_id, created_on)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.AccountType, account.Balance, account.Version,
		account.CustomerID, account.CreatedOn,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", mapInsertError(err))
	}
	return nil
}

func (r *AccountRepository) LinkCustomer(ctx context.Context, accountID, customerID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET customer_id = $1 WHERE id = $2`,
		customerID, accountID,
	)
	if err != nil {
		return fmt.Errorf("LinkCustomer: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("LinkCustomer: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("LinkCustomer: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// GetForUpdate locks the account row for the lifetime of tx. The transfer
// engine locks both accounts of a pair in lexicographic id order.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

// UpdateBalance writes a new balance guarded by the version check. A zero row
// count means the row changed since it was read.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, version = $2 WHERE id = $3 AND version = $4`,
		newBalance, newVersion, id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
	}
	return nil
}

func collectAccounts(rows *sql.Rows) ([]domain.Account, error) {
	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("collectAccounts: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collectAccounts: rows: %w", err)
	}
	return accounts, nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.AccountType, &a.Balance, &a.Version,
		&a.CustomerID, &a.CreatedOn,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
