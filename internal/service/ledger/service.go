// Package ledger holds the double-entry transfer engine. Every transfer
// debits the source account and credits the destination account inside one
// database transaction; the two postings and the two balance updates become
// visible together or not at all.
package ledger

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/seyio/bankledger/internal/domain"
)

// maxCommitAttempts bounds retries when a generated transaction id collides
// with an existing row. Collisions are expected to be extremely rare.
const maxCommitAttempts = 3

type accountRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal, newVersion int64) error
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
}

type idGenerator interface {
	TransferSuffix() (string, error)
}

type Service struct {
	accounts     accountRepo
	transactions transactionRepo
	ids          idGenerator
	db           *sql.DB
}

func NewService(accounts accountRepo, transactions transactionRepo, ids idGenerator, db *sql.DB) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		ids:          ids,
		db:           db,
	}
}
