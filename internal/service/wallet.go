package service

import (
	"fmt"
	"strings"

	"finance_system/internal/domain"
	"finance_system/internal/repository"

	"github.com/shopspring/decimal"
)

// WalletService owns the wallet lifecycle. Balances themselves are only
// ever touched through applyDelta by the transaction and transference
// services.
type WalletService struct {
	store repository.Store
}

func NewWalletService(store repository.Store) *WalletService {
	return &WalletService{store: store}
}

// WalletInput carries the owner-editable wallet fields.
type WalletInput struct {
	Name     string
	Type     string
	Currency string
	Balance  decimal.Decimal
}

func (s *WalletService) Get(owner, id uint) (*domain.Wallet, error) {
	return s.store.GetWallet(owner, id)
}

func (s *WalletService) List(owner uint, name string, offset, limit int) ([]domain.Wallet, int64, error) {
	return s.store.ListWallets(owner, strings.ToLower(name), offset, limit)
}

func (s *WalletService) Create(owner uint, in WalletInput) (*domain.Wallet, error) {
	walletType, err := domain.ParseWalletType(in.Type)
	if err != nil {
		return nil, err
	}
	currency, err := domain.ParseCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("wallet name can't be blank: %w", domain.ErrValidation)
	}
	if in.Balance.IsNegative() {
		return nil, fmt.Errorf("initial balance can't be negative: %w", domain.ErrValidation)
	}

	wallet := &domain.Wallet{
		UserID:   owner,
		Name:     in.Name,
		Type:     walletType,
		Balance:  in.Balance,
		Currency: currency,
	}
	if err := s.store.SaveWallet(wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Update changes name and type only. Currency is fixed for the wallet's
// lifetime and balance is owned by the ledger.
func (s *WalletService) Update(owner, id uint, name, typeName string) (*domain.Wallet, error) {
	walletType, err := domain.ParseWalletType(typeName)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("wallet name can't be blank: %w", domain.ErrValidation)
	}

	var wallet *domain.Wallet
	err = s.store.Atomically(func(r repository.Repository) error {
		wallet, err = r.GetWalletForUpdate(owner, id)
		if err != nil {
			return err
		}
		wallet.Name = name
		wallet.Type = walletType
		return r.SaveWallet(wallet)
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// Delete removes a wallet together with its transactions and automatic
// rules. It refuses while a transference still references the wallet:
// a transference has a second leg on another wallet, so the caller must
// delete or repoint those first.
func (s *WalletService) Delete(owner, id uint) error {
	return s.store.Atomically(func(r repository.Repository) error {
		wallet, err := r.GetWalletForUpdate(owner, id)
		if err != nil {
			return err
		}
		references, err := r.CountTransferencesByWallet(owner, id)
		if err != nil {
			return err
		}
		if references > 0 {
			return fmt.Errorf("wallet %d is still referenced by %d transference(s): %w", id, references, domain.ErrConflict)
		}
		if err := r.DeleteTransactionsByWallet(owner, id); err != nil {
			return err
		}
		if err := r.DeleteAutomaticTransactionsByWallet(owner, id); err != nil {
			return err
		}
		return r.DeleteWallet(wallet)
	})
}
