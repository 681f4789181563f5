package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transference Model. Moves funds between two wallets of the same user,
// converting the credited leg when the currencies differ.
type Transference struct {
	ID           uint            `json:"id" gorm:"primaryKey"`                      // Primary key
	UserID       uint            `json:"user_id" gorm:"index;not null"`             // Foreign key to the owning User
	FromWalletID uint            `json:"from_wallet_id" gorm:"index;not null"`      // Debited wallet
	ToWalletID   uint            `json:"to_wallet_id" gorm:"index;not null"`        // Credited wallet
	Amount       decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"` // Denominated in the from-wallet's currency
	Date         time.Time       `json:"date" gorm:"type:date;not null"`            // Day the transference applies to
	Description  string          `json:"description" gorm:"size:512;not null"`      // Free-form note
	CreatedAt    int64           `json:"created_at" gorm:"autoCreateTime:milli"`    // Timestamp of creation in milliseconds
}
