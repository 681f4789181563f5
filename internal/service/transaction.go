package service

import (
	"fmt"
	"time"

	"finance_system/internal/domain"
	"finance_system/internal/repository"

	"github.com/shopspring/decimal"
)

// TransactionService creates, updates and deletes single-wallet income
// and expense records, delegating every balance change to applyDelta.
type TransactionService struct {
	store repository.Store
}

func NewTransactionService(store repository.Store) *TransactionService {
	return &TransactionService{store: store}
}

// TransactionInput carries the owner-editable transaction fields. The
// expense type is never supplied directly; it derives from the category.
type TransactionInput struct {
	WalletID    uint
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description string
}

func (s *TransactionService) Get(owner, id uint) (*domain.Transaction, error) {
	return s.store.GetTransaction(owner, id)
}

func (s *TransactionService) List(owner uint, offset, limit int) ([]domain.Transaction, int64, error) {
	return s.store.ListTransactions(owner, offset, limit)
}

func (s *TransactionService) ListByRange(owner uint, start, end time.Time) ([]domain.Transaction, error) {
	return s.store.ListTransactionsByRange(owner, start, end)
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive: %w", domain.ErrValidation)
	}
	return nil
}

func (s *TransactionService) Create(owner uint, in TransactionInput) (*domain.Transaction, error) {
	category, err := domain.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}

	var created *domain.Transaction
	err = s.store.Atomically(func(r repository.Repository) error {
		created, err = createTransaction(r, owner, category, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createTransaction applies the balance effect and persists the record
// inside the caller's store transaction. The recurrence materializer
// funnels through here too, so every transaction is born the same way.
func createTransaction(r repository.Repository, owner uint, category domain.Category, in TransactionInput) (*domain.Transaction, error) {
	wallet, err := r.GetWalletForUpdate(owner, in.WalletID)
	if err != nil {
		return nil, err
	}
	if err := applyDelta(r, wallet, category.Type().Normalize(in.Amount)); err != nil {
		return nil, err
	}
	transaction := &domain.Transaction{
		UserID:      owner,
		WalletID:    wallet.ID,
		Amount:      in.Amount,
		Type:        category.Type(),
		Category:    category,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := r.SaveTransaction(transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// Update reverts the old balance effect and applies the new one. The
// transaction may also move to another wallet, in which case the revert
// hits the old wallet and the new effect the new one. If any step would
// leave a balance negative the whole update aborts and both the wallets
// and the record stay as they were.
func (s *TransactionService) Update(owner, id uint, in TransactionInput) (*domain.Transaction, error) {
	category, err := domain.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}

	var updated *domain.Transaction
	err = s.store.Atomically(func(r repository.Repository) error {
		transaction, err := r.GetTransaction(owner, id)
		if err != nil {
			return err
		}
		if err := adjustForUpdate(r, owner, transaction, category, in); err != nil {
			return err
		}
		transaction.WalletID = in.WalletID
		transaction.Amount = in.Amount
		transaction.Type = category.Type()
		transaction.Category = category
		transaction.Date = in.Date
		transaction.Description = in.Description
		if err := r.SaveTransaction(transaction); err != nil {
			return err
		}
		updated = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// adjustForUpdate performs the revert-then-apply balance move for Update.
func adjustForUpdate(r repository.Repository, owner uint, transaction *domain.Transaction, newCategory domain.Category, in TransactionInput) error {
	sameEffect := transaction.WalletID == in.WalletID &&
		transaction.Type == newCategory.Type() &&
		transaction.Amount.Equal(in.Amount)
	if sameEffect {
		// Same wallet, type and amount: no balance change, skip the
		// ledger entirely.
		return nil
	}

	oldDelta := transaction.Delta()
	newDelta := newCategory.Type().Normalize(in.Amount)

	wallets, err := lockWallets(r, owner, transaction.WalletID, in.WalletID)
	if err != nil {
		return err
	}

	if transaction.WalletID == in.WalletID {
		// Revert and apply as one combined step against the same wallet.
		return applyDelta(r, wallets[in.WalletID], newDelta.Sub(oldDelta))
	}
	if err := applyDelta(r, wallets[transaction.WalletID], oldDelta.Neg()); err != nil {
		return err
	}
	return applyDelta(r, wallets[in.WalletID], newDelta)
}

// Delete reverts the transaction's effect and removes the record. When
// the wallet balance has since dropped below the amount being charged
// back, the revert fails and the record is preserved unmodified.
func (s *TransactionService) Delete(owner, id uint) error {
	return s.store.Atomically(func(r repository.Repository) error {
		transaction, err := r.GetTransaction(owner, id)
		if err != nil {
			return err
		}
		wallet, err := r.GetWalletForUpdate(owner, transaction.WalletID)
		if err != nil {
			return err
		}
		if err := applyDelta(r, wallet, transaction.Delta().Neg()); err != nil {
			return fmt.Errorf("cannot delete transaction %d: %w", id, err)
		}
		return r.DeleteTransaction(transaction)
	})
}
