package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "DEBIT"
	TransactionTypeCredit TransactionType = "CREDIT"
)

// Prefix is the two-letter id prefix for transactions of this type. The debit
// and credit of one transfer share the random suffix after the prefix.
func (t TransactionType) Prefix() string {
	if t == TransactionTypeDebit {
		return "DB"
	}
	return "CR"
}

// Transaction is one posting against one account. Transactions are immutable
// once created; the ledger is append-only and no update or delete path exists.
// BalanceBefore and BalanceAfter are snapshots taken when the posting was
// committed and are never recomputed.
type Transaction struct {
	ID              string
	AccountID       string
	TransactionType TransactionType
	Amount          decimal.Decimal
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	PostedOn        time.Time
}
