package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seyio/bankledger/internal/domain"
	"github.com/seyio/bankledger/internal/identifier"
)

var fixtureIDs = identifier.New()

// SeedAccount inserts an account with the given type and opening balance.
func SeedAccount(t *testing.T, db *sql.DB, accountType domain.AccountType, balance decimal.Decimal, customerID *string) *domain.Account {
	t.Helper()

	id, err := fixtureIDs.AccountID(accountType)
	if err != nil {
		t.Fatalf("generate account id: %v", err)
	}

	account := &domain.Account{
		ID:          id,
		AccountType: accountType,
		Balance:     balance,
		Version:     1,
		CustomerID:  customerID,
		CreatedOn:   time.Now().UTC(),
	}

	_, err = db.ExecContext(context.Background(),
		`INSERT INTO accounts (id, account_type, balance, version, customer_id, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.AccountType, account.Balance, account.Version, account.CustomerID, account.CreatedOn,
	)
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	return account
}

// SeedCustomer inserts a customer with placeholder contact details.
func SeedCustomer(t *testing.T, db *sql.DB, firstName, lastName string) *domain.Customer {
	t.Helper()

	id, err := fixtureIDs.CustomerID()
	if err != nil {
		t.Fatalf("generate customer id: %v", err)
	}

	customer := &domain.Customer{
		ID:          id,
		FirstName:   firstName,
		LastName:    lastName,
		Address:     "1 Test Street",
		Email:       firstName + "." + lastName + "@example.com",
		Phone:       "555-0100",
		DateOfBirth: "1990-01-01",
		SSN:         "000-00-0000",
	}

	_, err = db.ExecContext(context.Background(),
		`INSERT INTO customers (id, first_name, last_name, address, email, phone, date_of_birth, ssn)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		customer.ID, customer.FirstName, customer.LastName, customer.Address,
		customer.Email, customer.Phone, customer.DateOfBirth, customer.SSN,
	)
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	return customer
}

// GetAccountBalance reads the current balance and version straight from the table.
func GetAccountBalance(t *testing.T, db *sql.DB, accountID string) (decimal.Decimal, int64) {
	t.Helper()

	var balance decimal.Decimal
	var version int64
	err := db.QueryRowContext(context.Background(),
		`SELECT balance, version FROM accounts WHERE id = $1`, accountID,
	).Scan(&balance, &version)
	if err != nil {
		t.Fatalf("get account balance: %v", err)
	}

	return balance, version
}

// GetTransactions returns all postings for an account ordered by posting time.
func GetTransactions(t *testing.T, db *sql.DB, accountID string) []domain.Transaction {
	t.Helper()

	rows, err := db.QueryContext(context.Background(),
		`SELECT id, account_id, type, amount, balance_before, balance_after, posted_on
		 FROM transactions WHERE account_id = $1 ORDER BY posted_on, id`, accountID,
	)
	if err != nil {
		t.Fatalf("query transactions: %v", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.TransactionType, &tx.Amount,
			&tx.BalanceBefore, &tx.BalanceAfter, &tx.PostedOn); err != nil {
			t.Fatalf("scan transaction: %v", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate transactions: %v", err)
	}

	return transactions
}

// CountTransactions returns the total number of postings for an account.
func CountTransactions(t *testing.T, db *sql.DB, accountID string) int {
	t.Helper()

	var count int
	err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions: %v", err)
	}

	return count
}
