package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/seyio/bankledger/internal/domain"
)

const transactionColumns = `id, account_id, type, amount, balance_before, balance_after, posted_on`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends one posting inside the transfer's transaction. Inserts only;
// an existing id surfaces as domain.ErrDuplicateKey.
func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, type, amount, balance_before, balance_after, posted_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.AccountID, t.TransactionType, t.Amount,
		t.BalanceBefore, t.BalanceAfter, t.PostedOn,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", mapInsertError(err))
	}
	return nil
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE account_id = $1 ORDER BY posted_on, id`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByAccount: scan: %w", err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByAccount: rows: %w", err)
	}
	return transactions, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.AccountID, &t.TransactionType, &t.Amount,
		&t.BalanceBefore, &t.BalanceAfter, &t.PostedOn,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
