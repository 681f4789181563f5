package repository

import (
	"errors"
	"fmt"
	"time"

	"finance_system/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStore implements Store on top of a *gorm.DB handle. The same type
// serves as the transaction-scoped Repository inside Atomically.
type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm connection in the Store interface.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Atomically(fn func(Repository) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// notFound converts gorm's record-not-found into the domain error kind,
// keeping everything else (connection failures, ...) untouched.
func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s with ID '%d' doesn't belong to the current user: %w", what, id, domain.ErrNotFound)
	}
	return err
}

// Wallets

func (s *gormStore) GetWallet(owner, id uint) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := s.db.Where("user_id = ? AND id = ?", owner, id).First(&wallet).Error; err != nil {
		return nil, notFound(err, "Wallet", id)
	}
	return &wallet, nil
}

func (s *gormStore) GetWalletForUpdate(owner, id uint) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND id = ?", owner, id).
		First(&wallet).Error
	if err != nil {
		return nil, notFound(err, "Wallet", id)
	}
	return &wallet, nil
}

func (s *gormStore) ListWallets(owner uint, name string, offset, limit int) ([]domain.Wallet, int64, error) {
	query := s.db.Model(&domain.Wallet{}).Where("user_id = ?", owner)
	if name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+name+"%")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var wallets []domain.Wallet
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&wallets).Error; err != nil {
		return nil, 0, err
	}
	return wallets, total, nil
}

func (s *gormStore) SaveWallet(wallet *domain.Wallet) error {
	return s.db.Save(wallet).Error
}

func (s *gormStore) DeleteWallet(wallet *domain.Wallet) error {
	return s.db.Delete(wallet).Error
}

// Transactions

func (s *gormStore) GetTransaction(owner, id uint) (*domain.Transaction, error) {
	var transaction domain.Transaction
	if err := s.db.Where("user_id = ? AND id = ?", owner, id).First(&transaction).Error; err != nil {
		return nil, notFound(err, "Transaction", id)
	}
	return &transaction, nil
}

func (s *gormStore) ListTransactions(owner uint, offset, limit int) ([]domain.Transaction, int64, error) {
	query := s.db.Model(&domain.Transaction{}).Where("user_id = ?", owner)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var transactions []domain.Transaction
	if err := query.Order("date desc, id desc").Offset(offset).Limit(limit).Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

func (s *gormStore) ListTransactionsByRange(owner uint, start, end time.Time) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := s.db.Where("user_id = ? AND date BETWEEN ? AND ?", owner, start, end).
		Order("date desc, id desc").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *gormStore) SaveTransaction(transaction *domain.Transaction) error {
	return s.db.Save(transaction).Error
}

func (s *gormStore) DeleteTransaction(transaction *domain.Transaction) error {
	return s.db.Delete(transaction).Error
}

func (s *gormStore) DeleteTransactionsByWallet(owner, walletID uint) error {
	return s.db.Where("user_id = ? AND wallet_id = ?", owner, walletID).
		Delete(&domain.Transaction{}).Error
}

// Transferences

func (s *gormStore) GetTransference(owner, id uint) (*domain.Transference, error) {
	var transference domain.Transference
	if err := s.db.Where("user_id = ? AND id = ?", owner, id).First(&transference).Error; err != nil {
		return nil, notFound(err, "Transference", id)
	}
	return &transference, nil
}

func (s *gormStore) ListTransferences(owner uint, filter TransferenceFilter, offset, limit int) ([]domain.Transference, int64, error) {
	query := s.db.Model(&domain.Transference{}).Where("user_id = ?", owner)
	if filter.SenderWalletID != 0 {
		query = query.Where("from_wallet_id = ?", filter.SenderWalletID)
	}
	if filter.ReceiverWalletID != 0 {
		query = query.Where("to_wallet_id = ?", filter.ReceiverWalletID)
	}
	if !filter.StartDate.IsZero() {
		query = query.Where("date >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query = query.Where("date <= ?", filter.EndDate)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var transferences []domain.Transference
	if err := query.Order("date desc, id desc").Offset(offset).Limit(limit).Find(&transferences).Error; err != nil {
		return nil, 0, err
	}
	return transferences, total, nil
}

func (s *gormStore) SaveTransference(transference *domain.Transference) error {
	return s.db.Save(transference).Error
}

func (s *gormStore) DeleteTransference(transference *domain.Transference) error {
	return s.db.Delete(transference).Error
}

func (s *gormStore) CountTransferencesByWallet(owner, walletID uint) (int64, error) {
	var total int64
	err := s.db.Model(&domain.Transference{}).
		Where("user_id = ? AND (from_wallet_id = ? OR to_wallet_id = ?)", owner, walletID, walletID).
		Count(&total).Error
	return total, err
}

// Automatic transactions

func (s *gormStore) GetAutomaticTransaction(owner, id uint) (*domain.AutomaticTransaction, error) {
	var rule domain.AutomaticTransaction
	if err := s.db.Where("user_id = ? AND id = ?", owner, id).First(&rule).Error; err != nil {
		return nil, notFound(err, "Automatic transaction", id)
	}
	return &rule, nil
}

func (s *gormStore) ListAutomaticTransactions(owner uint, offset, limit int) ([]domain.AutomaticTransaction, int64, error) {
	query := s.db.Model(&domain.AutomaticTransaction{}).Where("user_id = ?", owner)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rules []domain.AutomaticTransaction
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&rules).Error; err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

func (s *gormStore) ListDueAutomaticTransactions(day time.Time) ([]domain.AutomaticTransaction, error) {
	var rules []domain.AutomaticTransaction
	err := s.db.Where("next_transaction_date <= ?", day).
		Order("id").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *gormStore) SaveAutomaticTransaction(rule *domain.AutomaticTransaction) error {
	return s.db.Save(rule).Error
}

func (s *gormStore) DeleteAutomaticTransaction(rule *domain.AutomaticTransaction) error {
	return s.db.Delete(rule).Error
}

func (s *gormStore) DeleteAutomaticTransactionsByWallet(owner, walletID uint) error {
	return s.db.Where("user_id = ? AND wallet_id = ?", owner, walletID).
		Delete(&domain.AutomaticTransaction{}).Error
}
