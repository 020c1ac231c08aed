package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings  AccountType = "Savings"
	AccountTypeChecking AccountType = "Checking"
	AccountTypeLoan     AccountType = "Loan"
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeLoan:
		return true
	}
	return false
}

// Prefix is the two-letter id prefix assigned to accounts of this type.
func (t AccountType) Prefix() string {
	switch t {
	case AccountTypeSavings:
		return "SA"
	case AccountTypeChecking:
		return "CH"
	case AccountTypeLoan:
		return "LN"
	}
	return ""
}

// Account is a ledger account. For Savings and Checking the balance is funds
// available; for Loan it is outstanding principal. Balance is mutated only by
// the transfer engine through AccountRepository.UpdateBalance.
type Account struct {
	ID          string
	AccountType AccountType
	Balance     decimal.Decimal
	Version     int64
	CustomerID  *string
	CreatedOn   time.Time
}
