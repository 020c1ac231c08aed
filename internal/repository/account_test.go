package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyio/bankledger/internal/domain"
	"github.com/seyio/bankledger/internal/repository"
	"github.com/seyio/bankledger/internal/testutil"
)

func TestAccountRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		account := &domain.Account{
			ID:          "SAaaaaaa",
			AccountType: domain.AccountTypeSavings,
			Balance:     decimal.NewFromInt(100),
			Version:     1,
			CreatedOn:   time.Now().UTC(),
		}
		require.NoError(t, repo.Create(ctx, account))

		got, err := repo.GetByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, domain.AccountTypeSavings, got.AccountType)
		assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, int64(1), got.Version)
		assert.Nil(t, got.CustomerID)
	})

	t.Run("duplicate id maps to duplicate key", func(t *testing.T) {
		account := &domain.Account{
			ID:          "SAbbbbbb",
			AccountType: domain.AccountTypeSavings,
			Balance:     decimal.NewFromInt(100),
			Version:     1,
			CreatedOn:   time.Now().UTC(),
		}
		require.NoError(t, repo.Create(ctx, account))

		err := repo.Create(ctx, account)
		assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "SA000000")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("stale version update is rejected", func(t *testing.T) {
		account := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(50), nil)

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		// Version 3 implies the row was read at version 2, which it never was.
		err = repo.UpdateBalance(ctx, tx, account.ID, decimal.NewFromInt(10), 3)
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})

	t.Run("versioned update applies", func(t *testing.T) {
		account := testutil.SeedAccount(t, db, domain.AccountTypeChecking, decimal.NewFromInt(50), nil)

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateBalance(ctx, tx, account.ID, decimal.NewFromInt(10), 2))
		require.NoError(t, tx.Commit())

		balance, version := testutil.GetAccountBalance(t, db, account.ID)
		assert.True(t, balance.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, int64(2), version)
	})

	t.Run("link and count by customer", func(t *testing.T) {
		customer := testutil.SeedCustomer(t, db, "Ada", "Lovelace")
		account := testutil.SeedAccount(t, db, domain.AccountTypeSavings, decimal.NewFromInt(75), nil)

		require.NoError(t, repo.LinkCustomer(ctx, account.ID, customer.ID))

		count, err := repo.CountByCustomer(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		linked, err := repo.ListByCustomer(ctx, customer.ID)
		require.NoError(t, err)
		require.Len(t, linked, 1)
		assert.Equal(t, account.ID, linked[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		account := testutil.SeedAccount(t, db, domain.AccountTypeSavings, decimal.NewFromInt(75), nil)

		require.NoError(t, repo.Delete(ctx, account.ID))
		assert.ErrorIs(t, repo.Delete(ctx, account.ID), domain.ErrNotFound)
	})
}
