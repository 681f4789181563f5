package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ExpenseType says which direction a transaction moves a wallet balance.
type ExpenseType string

const (
	TypeExpense ExpenseType = "EXPENSE"
	TypeIncome  ExpenseType = "INCOME"
)

// Normalize turns a positive amount into the signed balance delta for
// this type: negative for expenses, positive for income.
func (t ExpenseType) Normalize(amount decimal.Decimal) decimal.Decimal {
	if t == TypeExpense {
		return amount.Neg()
	}
	return amount
}

// Category classifies a transaction. Each category maps to exactly one
// expense type; the set is fixed at compile time.
type Category string

const (
	CategorySalary         Category = "SALARY"
	CategoryFreelance      Category = "FREELANCE"
	CategorySellInvestment Category = "SELL_INVESTMENT"
	CategoryPassiveIncome  Category = "PASSIVE_INCOME"

	CategoryHousing        Category = "HOUSING"
	CategoryFood           Category = "FOOD"
	CategoryHealth         Category = "HEALTH"
	CategoryEntertainment  Category = "ENTERTAINMENT"
	CategoryTransportation Category = "TRANSPORTATION"
	CategoryEducation      Category = "EDUCATION"
	CategoryBuyInvestment  Category = "BUY_INVESTMENT"
	CategoryOther          Category = "OTHER"
)

var categoryTypes = map[Category]ExpenseType{
	CategorySalary:         TypeIncome,
	CategoryFreelance:      TypeIncome,
	CategorySellInvestment: TypeIncome,
	CategoryPassiveIncome:  TypeIncome,
	CategoryHousing:        TypeExpense,
	CategoryFood:           TypeExpense,
	CategoryHealth:         TypeExpense,
	CategoryEntertainment:  TypeExpense,
	CategoryTransportation: TypeExpense,
	CategoryEducation:      TypeExpense,
	CategoryBuyInvestment:  TypeExpense,
	CategoryOther:          TypeExpense,
}

// ParseCategory validates a category name, case-insensitively.
func ParseCategory(name string) (Category, error) {
	c := Category(strings.ToUpper(name))
	if _, ok := categoryTypes[c]; !ok {
		return "", fmt.Errorf("category '%s' doesn't exist: %w", name, ErrValidation)
	}
	return c, nil
}

// Type returns the expense type this category maps to.
func (c Category) Type() ExpenseType {
	return categoryTypes[c]
}
