package service

import (
	"fmt"
	"time"

	"finance_system/internal/domain"
	"finance_system/internal/repository"

	"github.com/shopspring/decimal"
)

// TransferenceService moves funds between two wallets of the same user.
// The amount is denominated in the from-wallet's currency; the credited
// leg is converted into the to-wallet's currency. Both legs commit or
// neither does.
type TransferenceService struct {
	store repository.Store
}

func NewTransferenceService(store repository.Store) *TransferenceService {
	return &TransferenceService{store: store}
}

// TransferenceInput carries the owner-editable transference fields.
type TransferenceInput struct {
	FromWalletID uint
	ToWalletID   uint
	Amount       decimal.Decimal
	Date         time.Time
	Description  string
}

func (s *TransferenceService) Get(owner, id uint) (*domain.Transference, error) {
	return s.store.GetTransference(owner, id)
}

func (s *TransferenceService) List(owner uint, filter repository.TransferenceFilter, offset, limit int) ([]domain.Transference, int64, error) {
	return s.store.ListTransferences(owner, filter, offset, limit)
}

func validateTransference(in TransferenceInput) error {
	if in.FromWalletID == in.ToWalletID {
		return fmt.Errorf("a wallet can't do a transference to itself: %w", domain.ErrConflict)
	}
	return validateAmount(in.Amount)
}

// applyLegs debits the from-wallet and credits the to-wallet with the
// converted amount, always in that order.
func applyLegs(r repository.Repository, from, to *domain.Wallet, amount decimal.Decimal) error {
	if err := applyDelta(r, from, amount.Neg()); err != nil {
		return err
	}
	converted := from.Currency.ConvertTo(amount, to.Currency)
	return applyDelta(r, to, converted)
}

// revertLegs undoes applyLegs: the from-wallet gets the amount back and
// the to-wallet is charged the converted amount, again from-then-to.
func revertLegs(r repository.Repository, from, to *domain.Wallet, amount decimal.Decimal) error {
	if err := applyDelta(r, from, amount); err != nil {
		return err
	}
	converted := from.Currency.ConvertTo(amount, to.Currency)
	return applyDelta(r, to, converted.Neg())
}

func (s *TransferenceService) Create(owner uint, in TransferenceInput) (*domain.Transference, error) {
	if err := validateTransference(in); err != nil {
		return nil, err
	}

	var created *domain.Transference
	err := s.store.Atomically(func(r repository.Repository) error {
		wallets, err := lockWallets(r, owner, in.FromWalletID, in.ToWalletID)
		if err != nil {
			return err
		}
		if err := applyLegs(r, wallets[in.FromWalletID], wallets[in.ToWalletID], in.Amount); err != nil {
			return err
		}
		created = &domain.Transference{
			UserID:       owner,
			FromWalletID: in.FromWalletID,
			ToWalletID:   in.ToWalletID,
			Amount:       in.Amount,
			Date:         in.Date,
			Description:  in.Description,
		}
		return r.SaveTransference(created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update reverts both legs of the existing transference against the
// existing wallets, then applies both legs of the new one against the
// (possibly different) wallets. Any failing step aborts the whole update
// and leaves every wallet in its pre-update state.
func (s *TransferenceService) Update(owner, id uint, in TransferenceInput) (*domain.Transference, error) {
	if err := validateTransference(in); err != nil {
		return nil, err
	}

	var updated *domain.Transference
	err := s.store.Atomically(func(r repository.Repository) error {
		transference, err := r.GetTransference(owner, id)
		if err != nil {
			return err
		}
		wallets, err := lockWallets(r, owner,
			transference.FromWalletID, transference.ToWalletID,
			in.FromWalletID, in.ToWalletID)
		if err != nil {
			return err
		}
		if err := revertLegs(r, wallets[transference.FromWalletID], wallets[transference.ToWalletID], transference.Amount); err != nil {
			return err
		}
		if err := applyLegs(r, wallets[in.FromWalletID], wallets[in.ToWalletID], in.Amount); err != nil {
			return err
		}
		transference.FromWalletID = in.FromWalletID
		transference.ToWalletID = in.ToWalletID
		transference.Amount = in.Amount
		transference.Date = in.Date
		transference.Description = in.Description
		if err := r.SaveTransference(transference); err != nil {
			return err
		}
		updated = transference
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete reverts both legs and removes the record.
func (s *TransferenceService) Delete(owner, id uint) error {
	return s.store.Atomically(func(r repository.Repository) error {
		transference, err := r.GetTransference(owner, id)
		if err != nil {
			return err
		}
		wallets, err := lockWallets(r, owner, transference.FromWalletID, transference.ToWalletID)
		if err != nil {
			return err
		}
		if err := revertLegs(r, wallets[transference.FromWalletID], wallets[transference.ToWalletID], transference.Amount); err != nil {
			return fmt.Errorf("cannot delete transference %d: %w", id, err)
		}
		return r.DeleteTransference(transference)
	})
}
