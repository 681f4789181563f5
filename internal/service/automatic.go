package service

import (
	"fmt"
	"strings"
	"time"

	"finance_system/internal/domain"
	"finance_system/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// AutomaticTransactionService manages recurring rules and materializes
// them into concrete transactions when they come due.
type AutomaticTransactionService struct {
	store repository.Store
}

func NewAutomaticTransactionService(store repository.Store) *AutomaticTransactionService {
	return &AutomaticTransactionService{store: store}
}

// AutomaticTransactionInput carries the owner-editable rule fields.
type AutomaticTransactionInput struct {
	WalletID            uint
	Name                string
	Amount              decimal.Decimal
	Category            string
	Recurrence          string
	Interval            int
	Description         string
	NextTransactionDate time.Time
}

func (s *AutomaticTransactionService) Get(owner, id uint) (*domain.AutomaticTransaction, error) {
	return s.store.GetAutomaticTransaction(owner, id)
}

func (s *AutomaticTransactionService) List(owner uint, offset, limit int) ([]domain.AutomaticTransaction, int64, error) {
	return s.store.ListAutomaticTransactions(owner, offset, limit)
}

func validateRule(in AutomaticTransactionInput) (domain.Category, domain.Recurrence, error) {
	category, err := domain.ParseCategory(in.Category)
	if err != nil {
		return "", "", err
	}
	recurrence, err := domain.ParseRecurrence(in.Recurrence)
	if err != nil {
		return "", "", err
	}
	if err := validateAmount(in.Amount); err != nil {
		return "", "", err
	}
	if in.Interval <= 0 {
		return "", "", fmt.Errorf("interval must be positive: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Name) == "" {
		return "", "", fmt.Errorf("automatic transaction name can't be blank: %w", domain.ErrValidation)
	}
	return category, recurrence, nil
}

func (s *AutomaticTransactionService) Create(owner uint, in AutomaticTransactionInput) (*domain.AutomaticTransaction, error) {
	category, recurrence, err := validateRule(in)
	if err != nil {
		return nil, err
	}
	// The wallet must exist and belong to the owner; creating a rule has
	// no balance effect of its own.
	if _, err := s.store.GetWallet(owner, in.WalletID); err != nil {
		return nil, err
	}

	rule := &domain.AutomaticTransaction{
		UserID:              owner,
		WalletID:            in.WalletID,
		Name:                in.Name,
		Amount:              in.Amount,
		Type:                category.Type(),
		Category:            category,
		Recurrence:          recurrence,
		Interval:            in.Interval,
		Description:         in.Description,
		NextTransactionDate: in.NextTransactionDate,
	}
	if err := s.store.SaveAutomaticTransaction(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *AutomaticTransactionService) Update(owner, id uint, in AutomaticTransactionInput) (*domain.AutomaticTransaction, error) {
	category, recurrence, err := validateRule(in)
	if err != nil {
		return nil, err
	}

	var updated *domain.AutomaticTransaction
	err = s.store.Atomically(func(r repository.Repository) error {
		rule, err := r.GetAutomaticTransaction(owner, id)
		if err != nil {
			return err
		}
		if _, err := r.GetWallet(owner, in.WalletID); err != nil {
			return err
		}
		rule.WalletID = in.WalletID
		rule.Name = in.Name
		rule.Amount = in.Amount
		rule.Type = category.Type()
		rule.Category = category
		rule.Recurrence = recurrence
		rule.Interval = in.Interval
		rule.Description = in.Description
		rule.NextTransactionDate = in.NextTransactionDate
		if err := r.SaveAutomaticTransaction(rule); err != nil {
			return err
		}
		updated = rule
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a rule. Rules are never deleted automatically, only on
// owner request.
func (s *AutomaticTransactionService) Delete(owner, id uint) error {
	return s.store.Atomically(func(r repository.Repository) error {
		rule, err := r.GetAutomaticTransaction(owner, id)
		if err != nil {
			return err
		}
		return r.DeleteAutomaticTransaction(rule)
	})
}

// RunDue materializes every rule due on or before today, one transaction
// per rule per run. A failure on one rule (typically a wallet that would
// go negative) is logged and does not stop the rest of the batch; the
// failed rule keeps its stale next date and is retried on the next run.
func (s *AutomaticTransactionService) RunDue(today time.Time) (processed, failed int, err error) {
	rules, err := s.store.ListDueAutomaticTransactions(today)
	if err != nil {
		return 0, 0, err
	}
	for i := range rules {
		rule := &rules[i]
		if err := s.materialize(rule, today); err != nil {
			failed++
			logrus.WithFields(logrus.Fields{
				"rule_id":   rule.ID,
				"user_id":   rule.UserID,
				"wallet_id": rule.WalletID,
				"error":     err.Error(),
			}).Error("Failed to process automatic transaction")
			continue
		}
		processed++
	}
	return processed, failed, nil
}

// materialize emits one transaction dated today through the regular
// transaction create path and advances the rule's next date, atomically.
func (s *AutomaticTransactionService) materialize(rule *domain.AutomaticTransaction, today time.Time) error {
	return s.store.Atomically(func(r repository.Repository) error {
		_, err := createTransaction(r, rule.UserID, rule.Category, TransactionInput{
			WalletID:    rule.WalletID,
			Amount:      rule.Amount,
			Date:        today,
			Description: rule.Description,
		})
		if err != nil {
			return err
		}
		rule.NextTransactionDate = rule.Recurrence.Advance(rule.NextTransactionDate, rule.Interval)
		return r.SaveAutomaticTransaction(rule)
	})
}
