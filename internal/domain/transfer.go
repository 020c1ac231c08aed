package domain

import "github.com/shopspring/decimal"

// TransferDetails is the request value for a transfer between two accounts.
// It is never persisted.
type TransferDetails struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}
