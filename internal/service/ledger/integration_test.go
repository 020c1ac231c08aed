package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyio/bankledger/internal/domain"
	"github.com/seyio/bankledger/internal/identifier"
	"github.com/seyio/bankledger/internal/repository"
	"github.com/seyio/bankledger/internal/service/ledger"
	"github.com/seyio/bankledger/internal/testutil"
)

func newLedgerService(t *testing.T) (*ledger.Service, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := ledger.NewService(
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db),
		identifier.New(),
		db,
	)
	return svc, db
}

func TestTransfer_DepositToDeposit(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	source := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(100), nil)
	dest := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(50), nil)

	err := svc.Transfer(ctx, domain.TransferDetails{
		FromAccountID: source.ID,
		ToAccountID:   dest.ID,
		Amount:        decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	sourceBalance, sourceVersion := testutil.GetAccountBalance(t, db, source.ID)
	destBalance, destVersion := testutil.GetAccountBalance(t, db, dest.ID)
	assert.True(t, sourceBalance.Equal(decimal.NewFromInt(60)), "source balance = %s", sourceBalance)
	assert.True(t, destBalance.Equal(decimal.NewFromInt(90)), "dest balance = %s", destBalance)
	assert.Equal(t, int64(2), sourceVersion)
	assert.Equal(t, int64(2), destVersion)

	debits := testutil.GetTransactions(t, db, source.ID)
	credits := testutil.GetTransactions(t, db, dest.ID)
	require.Len(t, debits, 1)
	require.Len(t, credits, 1)

	debit, credit := debits[0], credits[0]
	assert.Equal(t, domain.TransactionTypeDebit, debit.TransactionType)
	assert.Equal(t, domain.TransactionTypeCredit, credit.TransactionType)
	assert.Equal(t, "DB", debit.ID[:2])
	assert.Equal(t, "CR", credit.ID[:2])
	assert.Equal(t, debit.ID[2:], credit.ID[2:], "both postings share one suffix")
	assert.True(t, debit.PostedOn.Equal(credit.PostedOn), "both postings share one timestamp")

	assert.True(t, debit.Amount.Equal(decimal.NewFromInt(40)))
	assert.True(t, debit.BalanceBefore.Equal(decimal.NewFromInt(100)))
	assert.True(t, debit.BalanceAfter.Equal(decimal.NewFromInt(60)))
	assert.True(t, credit.BalanceBefore.Equal(decimal.NewFromInt(50)))
	assert.True(t, credit.BalanceAfter.Equal(decimal.NewFromInt(90)))
}

func TestTransfer_LoanDestinationReducesPrincipal(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	source := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(100), nil)
	loan := testutil.SeedAccount(t, db, domain.AccountTypeLoan, decimal.NewFromInt(500), nil)

	err := svc.Transfer(ctx, domain.TransferDetails{
		FromAccountID: source.ID,
		ToAccountID:   loan.ID,
		Amount:        decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	sourceBalance, _ := testutil.GetAccountBalance(t, db, source.ID)
	loanBalance, _ := testutil.GetAccountBalance(t, db, loan.ID)
	assert.True(t, sourceBalance.Equal(decimal.NewFromInt(70)), "source balance = %s", sourceBalance)
	assert.True(t, loanBalance.Equal(decimal.NewFromInt(470)), "loan balance = %s", loanBalance)

	credits := testutil.GetTransactions(t, db, loan.ID)
	require.Len(t, credits, 1)
	assert.Equal(t, domain.TransactionTypeCredit, credits[0].TransactionType)
	assert.True(t, credits[0].BalanceBefore.Equal(decimal.NewFromInt(500)))
	assert.True(t, credits[0].BalanceAfter.Equal(decimal.NewFromInt(470)))
}

func TestTransfer_LoanSourceRejected(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	loan := testutil.SeedAccount(t, db, domain.AccountTypeLoan, decimal.NewFromInt(500), nil)
	dest := testutil.SeedAccount(t, db, domain.AccountTypeSavings, decimal.NewFromInt(50), nil)

	err := svc.Transfer(ctx, domain.TransferDetails{
		FromAccountID: loan.ID,
		ToAccountID:   dest.ID,
		Amount:        decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, domain.ErrIneligibleSource)

	loanBalance, _ := testutil.GetAccountBalance(t, db, loan.ID)
	destBalance, _ := testutil.GetAccountBalance(t, db, dest.ID)
	assert.True(t, loanBalance.Equal(decimal.NewFromInt(500)))
	assert.True(t, destBalance.Equal(decimal.NewFromInt(50)))
	assert.Zero(t, testutil.CountTransactions(t, db, loan.ID))
	assert.Zero(t, testutil.CountTransactions(t, db, dest.ID))
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	source := testutil.SeedAccount(t, db, domain.AccountTypeSavings, decimal.NewFromInt(25), nil)
	dest := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(50), nil)

	err := svc.Transfer(ctx, domain.TransferDetails{
		FromAccountID: source.ID,
		ToAccountID:   dest.ID,
		Amount:        decimal.NewFromInt(40),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	sourceBalance, _ := testutil.GetAccountBalance(t, db, source.ID)
	destBalance, _ := testutil.GetAccountBalance(t, db, dest.ID)
	assert.True(t, sourceBalance.Equal(decimal.NewFromInt(25)))
	assert.True(t, destBalance.Equal(decimal.NewFromInt(50)))
	assert.Zero(t, testutil.CountTransactions(t, db, source.ID))
}

func TestTransfer_ExactBalanceDrainsToZero(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	source := testutil.SeedAccount(t, db, domain.AccountTypeSavings, decimal.NewFromInt(40), nil)
	dest := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(50), nil)

	err := svc.Transfer(ctx, domain.TransferDetails{
		FromAccountID: source.ID,
		ToAccountID:   dest.ID,
		Amount:        decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	sourceBalance, _ := testutil.GetAccountBalance(t, db, source.ID)
	assert.True(t, sourceBalance.IsZero(), "source balance = %s", sourceBalance)
}

func TestTransfer_MissingDestinationRejectedBeforeLookup(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	source := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(100), nil)

	err := svc.Transfer(ctx, domain.TransferDetails{
		FromAccountID: source.ID,
		Amount:        decimal.NewFromInt(40),
	})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.NotErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestTransfer_UnknownAccount(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	source := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(100), nil)

	err := svc.Transfer(ctx, domain.TransferDetails{
		FromAccountID: source.ID,
		ToAccountID:   "SA000000",
		Amount:        decimal.NewFromInt(40),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	sourceBalance, _ := testutil.GetAccountBalance(t, db, source.ID)
	assert.True(t, sourceBalance.Equal(decimal.NewFromInt(100)))
}

func TestTransfer_ConcurrentOverdraftOnlyOneWins(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	source := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(100), nil)
	destA := testutil.SeedAccount(t, db, domain.AccountTypeSavings, decimal.NewFromInt(0), nil)
	destB := testutil.SeedAccount(t, db, domain.AccountTypeSavings, decimal.NewFromInt(0), nil)

	// Two transfers of 80 against a balance of 100: exactly one can commit.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, dest := range []string{destA.ID, destB.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.Transfer(ctx, domain.TransferDetails{
				FromAccountID: source.ID,
				ToAccountID:   dest,
				Amount:        decimal.NewFromInt(80),
			})
		}()
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected transfer error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	sourceBalance, _ := testutil.GetAccountBalance(t, db, source.ID)
	assert.True(t, sourceBalance.Equal(decimal.NewFromInt(20)), "source balance = %s", sourceBalance)
	assert.Equal(t, 1, testutil.CountTransactions(t, db, source.ID))
}

func TestTransfer_DisjointPairsInParallel(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	type pair struct{ from, to string }
	var pairs []pair
	for range 4 {
		from := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(100), nil)
		to := testutil.SeedAccount(t, db, domain.AccountTypeSavings, decimal.NewFromInt(0), nil)
		pairs = append(pairs, pair{from: from.ID, to: to.ID})
	}

	var wg sync.WaitGroup
	errs := make([]error, len(pairs))
	for i, p := range pairs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = svc.Transfer(ctx, domain.TransferDetails{
				FromAccountID: p.from,
				ToAccountID:   p.to,
				Amount:        decimal.NewFromInt(60),
			})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "pair %d", i)
	}
	for _, p := range pairs {
		fromBalance, _ := testutil.GetAccountBalance(t, db, p.from)
		toBalance, _ := testutil.GetAccountBalance(t, db, p.to)
		assert.True(t, fromBalance.Equal(decimal.NewFromInt(40)))
		assert.True(t, toBalance.Equal(decimal.NewFromInt(60)))
	}
}
