package service_test

import (
	"testing"
	"time"

	"finance_system/internal/domain"
	"finance_system/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner uint = 7

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func seedWallet(t *testing.T, store *fakeStore, currency domain.Currency, balance string) *domain.Wallet {
	t.Helper()
	wallet := &domain.Wallet{
		UserID:   owner,
		Name:     "test wallet",
		Type:     domain.WalletTypeBank,
		Balance:  decimal.RequireFromString(balance),
		Currency: currency,
	}
	require.NoError(t, store.SaveWallet(wallet))
	return wallet
}

func walletBalance(t *testing.T, store *fakeStore, id uint) decimal.Decimal {
	t.Helper()
	wallet, err := store.GetWallet(owner, id)
	require.NoError(t, err)
	return wallet.Balance
}

func TestTransactionLifecycle(t *testing.T) {
	store := newFakeStore()
	wallet := seedWallet(t, store, domain.EUR, "100")
	svc := service.NewTransactionService(store)

	created, err := svc.Create(owner, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(30),
		Category: "FOOD",
		Date:     day("2026-03-10"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TypeExpense, created.Type)
	assert.Equal(t, domain.CategoryFood, created.Category)
	assert.True(t, walletBalance(t, store, wallet.ID).Equal(decimal.NewFromInt(70)))

	// Lowering the expense gives the difference back.
	_, err = svc.Update(owner, created.ID, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(10),
		Category: "FOOD",
		Date:     day("2026-03-10"),
	})
	require.NoError(t, err)
	assert.True(t, walletBalance(t, store, wallet.ID).Equal(decimal.NewFromInt(90)))

	// Deleting reverts the remaining effect entirely.
	require.NoError(t, svc.Delete(owner, created.ID))
	assert.True(t, walletBalance(t, store, wallet.ID).Equal(decimal.NewFromInt(100)))
	_, err = svc.Get(owner, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTransactionValidation(t *testing.T) {
	store := newFakeStore()
	wallet := seedWallet(t, store, domain.EUR, "100")
	svc := service.NewTransactionService(store)

	_, err := svc.Create(owner, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(10),
		Category: "LOTTERY",
		Date:     day("2026-03-10"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(owner, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.Zero,
		Category: "FOOD",
		Date:     day("2026-03-10"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(owner, service.TransactionInput{
		WalletID: 999,
		Amount:   decimal.NewFromInt(10),
		Category: "FOOD",
		Date:     day("2026-03-10"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTransactionInsufficientBalance(t *testing.T) {
	store := newFakeStore()
	wallet := seedWallet(t, store, domain.EUR, "20")
	svc := service.NewTransactionService(store)

	_, err := svc.Create(owner, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(30),
		Category: "FOOD",
		Date:     day("2026-03-10"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Nothing committed: balance intact, no record persisted.
	assert.True(t, walletBalance(t, store, wallet.ID).Equal(decimal.NewFromInt(20)))
	records, total, err := svc.List(owner, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, total)
}

func TestUpdateTransactionMovesWallets(t *testing.T) {
	store := newFakeStore()
	first := seedWallet(t, store, domain.EUR, "100")
	second := seedWallet(t, store, domain.EUR, "50")
	svc := service.NewTransactionService(store)

	created, err := svc.Create(owner, service.TransactionInput{
		WalletID: first.ID,
		Amount:   decimal.NewFromInt(40),
		Category: "HOUSING",
		Date:     day("2026-03-01"),
	})
	require.NoError(t, err)
	assert.True(t, walletBalance(t, store, first.ID).Equal(decimal.NewFromInt(60)))

	// Repointing the expense reverts it on the first wallet and charges
	// the second one.
	_, err = svc.Update(owner, created.ID, service.TransactionInput{
		WalletID: second.ID,
		Amount:   decimal.NewFromInt(40),
		Category: "HOUSING",
		Date:     day("2026-03-01"),
	})
	require.NoError(t, err)
	assert.True(t, walletBalance(t, store, first.ID).Equal(decimal.NewFromInt(100)))
	assert.True(t, walletBalance(t, store, second.ID).Equal(decimal.NewFromInt(10)))

	moved, err := svc.Get(owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, moved.WalletID)
}

func TestUpdateTransactionAbortsOnInsufficientBalance(t *testing.T) {
	store := newFakeStore()
	wallet := seedWallet(t, store, domain.EUR, "100")
	svc := service.NewTransactionService(store)

	created, err := svc.Create(owner, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(30),
		Category: "FOOD",
		Date:     day("2026-03-10"),
	})
	require.NoError(t, err)

	// Raising the expense to 200 needs 170 more than the wallet holds.
	_, err = svc.Update(owner, created.ID, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(200),
		Category: "FOOD",
		Date:     day("2026-03-10"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	assert.True(t, walletBalance(t, store, wallet.ID).Equal(decimal.NewFromInt(70)))
	unchanged, err := svc.Get(owner, created.ID)
	require.NoError(t, err)
	assert.True(t, unchanged.Amount.Equal(decimal.NewFromInt(30)))
}

func TestUpdateTransactionNoBalanceEffect(t *testing.T) {
	store := newFakeStore()
	wallet := seedWallet(t, store, domain.EUR, "100")
	svc := service.NewTransactionService(store)

	created, err := svc.Create(owner, service.TransactionInput{
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(30),
		Category:    "FOOD",
		Date:        day("2026-03-10"),
		Description: "lunch",
	})
	require.NoError(t, err)

	// Same wallet, type and amount: only the metadata changes.
	updated, err := svc.Update(owner, created.ID, service.TransactionInput{
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(30),
		Category:    "ENTERTAINMENT",
		Date:        day("2026-03-11"),
		Description: "cinema",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryEntertainment, updated.Category)
	assert.Equal(t, "cinema", updated.Description)
	assert.True(t, updated.Date.Equal(day("2026-03-11")))
	assert.True(t, walletBalance(t, store, wallet.ID).Equal(decimal.NewFromInt(70)))
}

func TestDeleteTransactionRevertCanFail(t *testing.T) {
	store := newFakeStore()
	wallet := seedWallet(t, store, domain.EUR, "0")
	svc := service.NewTransactionService(store)

	income, err := svc.Create(owner, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(50),
		Category: "SALARY",
		Date:     day("2026-03-01"),
	})
	require.NoError(t, err)
	_, err = svc.Create(owner, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(40),
		Category: "FOOD",
		Date:     day("2026-03-02"),
	})
	require.NoError(t, err)

	// Charging the 50 income back would leave the wallet at -40, so the
	// delete is rejected and the record survives.
	err = svc.Delete(owner, income.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.True(t, walletBalance(t, store, wallet.ID).Equal(decimal.NewFromInt(10)))
	_, err = svc.Get(owner, income.ID)
	assert.NoError(t, err)
}

func TestTransactionOwnerIsolation(t *testing.T) {
	store := newFakeStore()
	wallet := seedWallet(t, store, domain.EUR, "100")
	svc := service.NewTransactionService(store)

	created, err := svc.Create(owner, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(30),
		Category: "FOOD",
		Date:     day("2026-03-10"),
	})
	require.NoError(t, err)

	_, err = svc.Get(owner+1, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = svc.Delete(owner+1, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTransactionsByRange(t *testing.T) {
	store := newFakeStore()
	wallet := seedWallet(t, store, domain.EUR, "1000")
	svc := service.NewTransactionService(store)

	for _, d := range []string{"2026-01-15", "2026-02-15", "2026-03-15"} {
		_, err := svc.Create(owner, service.TransactionInput{
			WalletID: wallet.ID,
			Amount:   decimal.NewFromInt(10),
			Category: "FOOD",
			Date:     day(d),
		})
		require.NoError(t, err)
	}

	records, err := svc.ListByRange(owner, day("2026-02-01"), day("2026-02-28"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Date.Equal(day("2026-02-15")))
}
