package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// WalletType distinguishes bank accounts from physical cash.
type WalletType string

const (
	WalletTypeBank WalletType = "BANK"
	WalletTypeCash WalletType = "CASH"
)

// ParseWalletType validates a wallet type name, case-insensitively.
func ParseWalletType(name string) (WalletType, error) {
	t := WalletType(strings.ToUpper(name))
	if t != WalletTypeBank && t != WalletTypeCash {
		return "", fmt.Errorf("wallet type '%s' doesn't exist: %w", name, ErrValidation)
	}
	return t, nil
}

// Wallet Model. A wallet holds a single-currency, never-negative balance
// owned by one user.
type Wallet struct {
	ID       uint            `json:"id" gorm:"primaryKey"`                       // Primary key
	UserID   uint            `json:"user_id" gorm:"index;not null"`              // Foreign key to the owning User
	Name     string          `json:"name" gorm:"size:50;not null"`               // Display name
	Type     WalletType      `json:"type" gorm:"size:10;not null"`               // BANK or CASH
	Balance  decimal.Decimal `json:"balance" gorm:"type:decimal(32,10);not null"` // Stored at full precision, rounded only for display
	Currency Currency        `json:"currency" gorm:"size:3;not null"`            // Wallet currency, fixed at creation
}

// ApplyDelta adds a signed amount to the balance, rejecting any change
// that would make it negative. Every balance mutation in the system goes
// through here.
func (w *Wallet) ApplyDelta(delta decimal.Decimal) error {
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return fmt.Errorf("wallet %d doesn't have enough balance: %w", w.ID, ErrInsufficientBalance)
	}
	w.Balance = next
	return nil
}

// FormattedBalance renders the balance in the wallet's currency.
func (w *Wallet) FormattedBalance() string {
	return w.Currency.Format(w.Balance)
}
