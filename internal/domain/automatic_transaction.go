package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AutomaticTransaction Model. A recurring rule that materializes into a
// concrete Transaction every time its next date comes due.
type AutomaticTransaction struct {
	ID                  uint            `json:"id" gorm:"primaryKey"`                              // Primary key
	UserID              uint            `json:"user_id" gorm:"index;not null"`                     // Foreign key to the owning User
	WalletID            uint            `json:"wallet_id" gorm:"index;not null"`                   // Wallet the materialized transactions hit
	Name                string          `json:"name" gorm:"size:50;not null"`                      // Display name
	Amount              decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`         // Always positive; the sign comes from Type
	Type                ExpenseType     `json:"type" gorm:"size:10;not null"`                      // Derived from Category
	Category            Category        `json:"category" gorm:"size:20;not null"`                  // Fixed category set
	Recurrence          Recurrence      `json:"recurrence" gorm:"size:10;not null"`                // DAILY, WEEKLY, MONTHLY or YEARLY
	Interval            int             `json:"interval" gorm:"column:recurrence_interval;not null"` // Every N units of Recurrence, e.g. 2 WEEKLY = every 2 weeks
	Description         string          `json:"description" gorm:"size:512;not null"`              // Copied onto materialized transactions
	NextTransactionDate time.Time       `json:"next_transaction_date" gorm:"type:date;not null;index"` // Next due date; advanced after each materialization
}
