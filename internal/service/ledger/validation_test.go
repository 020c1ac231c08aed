package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/seyio/bankledger/internal/domain"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		details domain.TransferDetails
		wantErr error
	}{
		{
			name: "valid request",
			details: domain.TransferDetails{
				FromAccountID: "CH1a2b3c",
				ToAccountID:   "SA4d5e6f",
				Amount:        decimal.NewFromInt(40),
			},
			wantErr: nil,
		},
		{
			name: "missing source id",
			details: domain.TransferDetails{
				ToAccountID: "SA4d5e6f",
				Amount:      decimal.NewFromInt(40),
			},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name: "missing destination id",
			details: domain.TransferDetails{
				FromAccountID: "CH1a2b3c",
				Amount:        decimal.NewFromInt(40),
			},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name: "same source and destination",
			details: domain.TransferDetails{
				FromAccountID: "CH1a2b3c",
				ToAccountID:   "CH1a2b3c",
				Amount:        decimal.NewFromInt(40),
			},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name: "zero amount",
			details: domain.TransferDetails{
				FromAccountID: "CH1a2b3c",
				ToAccountID:   "SA4d5e6f",
				Amount:        decimal.Zero,
			},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name: "negative amount",
			details: domain.TransferDetails{
				FromAccountID: "CH1a2b3c",
				ToAccountID:   "SA4d5e6f",
				Amount:        decimal.NewFromInt(-10),
			},
			wantErr: domain.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.details)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestValidateAccounts(t *testing.T) {
	details := domain.TransferDetails{
		FromAccountID: "CH1a2b3c",
		ToAccountID:   "SA4d5e6f",
		Amount:        decimal.NewFromInt(40),
	}

	tests := []struct {
		name    string
		source  *domain.Account
		dest    *domain.Account
		wantErr error
	}{
		{
			name:    "checking source with sufficient funds",
			source:  &domain.Account{ID: "CH1a2b3c", AccountType: domain.AccountTypeChecking, Balance: decimal.NewFromInt(100)},
			dest:    &domain.Account{ID: "SA4d5e6f", AccountType: domain.AccountTypeSavings, Balance: decimal.NewFromInt(50)},
			wantErr: nil,
		},
		{
			name:    "exact balance is allowed",
			source:  &domain.Account{ID: "CH1a2b3c", AccountType: domain.AccountTypeChecking, Balance: decimal.NewFromInt(40)},
			dest:    &domain.Account{ID: "SA4d5e6f", AccountType: domain.AccountTypeSavings, Balance: decimal.NewFromInt(50)},
			wantErr: nil,
		},
		{
			name:    "loan source is ineligible",
			source:  &domain.Account{ID: "LN1a2b3c", AccountType: domain.AccountTypeLoan, Balance: decimal.NewFromInt(500)},
			dest:    &domain.Account{ID: "SA4d5e6f", AccountType: domain.AccountTypeSavings, Balance: decimal.NewFromInt(50)},
			wantErr: domain.ErrIneligibleSource,
		},
		{
			name:    "insufficient funds",
			source:  &domain.Account{ID: "CH1a2b3c", AccountType: domain.AccountTypeChecking, Balance: decimal.NewFromInt(39)},
			dest:    &domain.Account{ID: "SA4d5e6f", AccountType: domain.AccountTypeSavings, Balance: decimal.NewFromInt(50)},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:    "loan source check precedes funds check",
			source:  &domain.Account{ID: "LN1a2b3c", AccountType: domain.AccountTypeLoan, Balance: decimal.NewFromInt(10)},
			dest:    &domain.Account{ID: "SA4d5e6f", AccountType: domain.AccountTypeSavings, Balance: decimal.NewFromInt(50)},
			wantErr: domain.ErrIneligibleSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAccounts(details, tt.source, tt.dest)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestStorageFailure(t *testing.T) {
	t.Run("plain driver error becomes a retryable storage fault", func(t *testing.T) {
		cause := errors.New("driver: bad connection")
		err := storageFailure(cause)
		assert.True(t, errors.Is(err, domain.ErrStorage))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("duplicate key keeps its identity", func(t *testing.T) {
		err := storageFailure(fmt.Errorf("Create: %w", domain.ErrDuplicateKey))
		assert.True(t, errors.Is(err, domain.ErrDuplicateKey))
		assert.False(t, errors.Is(err, domain.ErrStorage))
	})

	t.Run("version conflict keeps its identity", func(t *testing.T) {
		err := storageFailure(fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict))
		assert.True(t, errors.Is(err, domain.ErrVersionConflict))
		assert.False(t, errors.Is(err, domain.ErrStorage))
	})
}

func TestCreditedBalance(t *testing.T) {
	amount := decimal.NewFromInt(30)

	t.Run("deposit account balance grows", func(t *testing.T) {
		dest := &domain.Account{AccountType: domain.AccountTypeSavings, Balance: decimal.NewFromInt(50)}
		assert.True(t, creditedBalance(dest, amount).Equal(decimal.NewFromInt(80)))
	})

	t.Run("checking account balance grows", func(t *testing.T) {
		dest := &domain.Account{AccountType: domain.AccountTypeChecking, Balance: decimal.NewFromInt(50)}
		assert.True(t, creditedBalance(dest, amount).Equal(decimal.NewFromInt(80)))
	})

	t.Run("loan credit pays down principal", func(t *testing.T) {
		dest := &domain.Account{AccountType: domain.AccountTypeLoan, Balance: decimal.NewFromInt(500)}
		assert.True(t, creditedBalance(dest, amount).Equal(decimal.NewFromInt(470)))
	})
}
