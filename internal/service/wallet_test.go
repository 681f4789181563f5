package service_test

import (
	"testing"

	"finance_system/internal/domain"
	"finance_system/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWallet(t *testing.T) {
	store := newFakeStore()
	svc := service.NewWalletService(store)

	wallet, err := svc.Create(owner, service.WalletInput{
		Name:     "Checking",
		Type:     "bank",
		Currency: "usd",
		Balance:  decimal.RequireFromString("74.35"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WalletTypeBank, wallet.Type)
	assert.Equal(t, domain.USD, wallet.Currency)
	assert.Equal(t, "$74.35", wallet.FormattedBalance())
}

func TestCreateWalletValidation(t *testing.T) {
	store := newFakeStore()
	svc := service.NewWalletService(store)

	tests := []struct {
		name  string
		input service.WalletInput
	}{
		{"unknown type", service.WalletInput{Name: "w", Type: "CRYPTO", Currency: "EUR"}},
		{"unknown currency", service.WalletInput{Name: "w", Type: "BANK", Currency: "DOGE"}},
		{"blank name", service.WalletInput{Name: "  ", Type: "BANK", Currency: "EUR"}},
		{"negative balance", service.WalletInput{Name: "w", Type: "BANK", Currency: "EUR", Balance: decimal.NewFromInt(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(owner, tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUpdateWallet(t *testing.T) {
	store := newFakeStore()
	wallet := seedWallet(t, store, domain.EUR, "100")
	svc := service.NewWalletService(store)

	updated, err := svc.Update(owner, wallet.ID, "Rainy day", "CASH")
	require.NoError(t, err)
	assert.Equal(t, "Rainy day", updated.Name)
	assert.Equal(t, domain.WalletTypeCash, updated.Type)

	// Balance and currency are untouched by an update.
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.EUR, updated.Currency)
}

func TestListWalletsByName(t *testing.T) {
	store := newFakeStore()
	svc := service.NewWalletService(store)

	for _, name := range []string{"Main checking", "Savings", "Holiday savings"} {
		_, err := svc.Create(owner, service.WalletInput{Name: name, Type: "BANK", Currency: "EUR"})
		require.NoError(t, err)
	}

	wallets, total, err := svc.List(owner, "SAVINGS", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, wallets, 2)
}

func TestDeleteWalletRemovesDependents(t *testing.T) {
	store := newFakeStore()
	wallet := seedWallet(t, store, domain.EUR, "100")
	wallets := service.NewWalletService(store)
	transactions := service.NewTransactionService(store)
	automatics := service.NewAutomaticTransactionService(store)

	created, err := transactions.Create(owner, service.TransactionInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(30),
		Category: "FOOD",
		Date:     day("2026-03-10"),
	})
	require.NoError(t, err)
	rule, err := automatics.Create(owner, service.AutomaticTransactionInput{
		WalletID: wallet.ID, Name: "rent", Amount: decimal.NewFromInt(10),
		Category: "HOUSING", Recurrence: "MONTHLY", Interval: 1,
		NextTransactionDate: day("2026-04-01"),
	})
	require.NoError(t, err)

	require.NoError(t, wallets.Delete(owner, wallet.ID))

	_, err = wallets.Get(owner, wallet.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = transactions.Get(owner, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = automatics.Get(owner, rule.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteWalletBlockedByTransference(t *testing.T) {
	store := newFakeStore()
	from := seedWallet(t, store, domain.EUR, "100")
	to := seedWallet(t, store, domain.EUR, "0")
	wallets := service.NewWalletService(store)
	transferences := service.NewTransferenceService(store)

	created, err := transferences.Create(owner, service.TransferenceInput{
		FromWalletID: from.ID,
		ToWalletID:   to.ID,
		Amount:       decimal.NewFromInt(50),
		Date:         day("2026-03-10"),
	})
	require.NoError(t, err)

	err = wallets.Delete(owner, to.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = wallets.Get(owner, to.ID)
	assert.NoError(t, err)

	// Once the transference is gone the wallet can be deleted.
	require.NoError(t, transferences.Delete(owner, created.ID))
	require.NoError(t, wallets.Delete(owner, to.ID))
}
