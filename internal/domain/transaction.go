package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction Model. A single income or expense applied to one wallet.
type Transaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`                      // Primary key
	UserID      uint            `json:"user_id" gorm:"index;not null"`             // Foreign key to the owning User
	WalletID    uint            `json:"wallet_id" gorm:"index;not null"`           // Foreign key to the affected Wallet
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"` // Always positive; the sign comes from Type
	Type        ExpenseType     `json:"type" gorm:"size:10;not null"`              // Derived from Category
	Category    Category        `json:"category" gorm:"size:20;not null"`          // Fixed category set
	Description string          `json:"description" gorm:"size:512;not null"`      // Free-form note
	Date        time.Time       `json:"date" gorm:"type:date;not null"`            // Day the transaction applies to
	CreatedAt   int64           `json:"created_at" gorm:"autoCreateTime:milli"`    // Timestamp of creation in milliseconds
}

// Delta is the signed effect this transaction has on its wallet balance.
func (t *Transaction) Delta() decimal.Decimal {
	return t.Type.Normalize(t.Amount)
}
