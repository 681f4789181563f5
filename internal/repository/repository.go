package repository

import (
	"time"

	"finance_system/internal/domain"
)

// TransferenceFilter narrows transference listings. Zero values mean
// "don't filter".
type TransferenceFilter struct {
	SenderWalletID   uint
	ReceiverWalletID uint
	StartDate        time.Time
	EndDate          time.Time
}

// Repository is the persistence boundary of the finance core. Every read
// and write is scoped by the owning user; "not found for this owner"
// surfaces as domain.ErrNotFound. The service layer depends on this
// interface, not on a concrete implementation.
type Repository interface {
	// Wallets
	GetWallet(owner, id uint) (*domain.Wallet, error)
	// GetWalletForUpdate additionally takes the store's per-row write
	// lock so concurrent balance mutations on the same wallet serialize.
	GetWalletForUpdate(owner, id uint) (*domain.Wallet, error)
	ListWallets(owner uint, name string, offset, limit int) ([]domain.Wallet, int64, error)
	SaveWallet(wallet *domain.Wallet) error
	DeleteWallet(wallet *domain.Wallet) error

	// Transactions
	GetTransaction(owner, id uint) (*domain.Transaction, error)
	ListTransactions(owner uint, offset, limit int) ([]domain.Transaction, int64, error)
	ListTransactionsByRange(owner uint, start, end time.Time) ([]domain.Transaction, error)
	SaveTransaction(transaction *domain.Transaction) error
	DeleteTransaction(transaction *domain.Transaction) error
	DeleteTransactionsByWallet(owner, walletID uint) error

	// Transferences
	GetTransference(owner, id uint) (*domain.Transference, error)
	ListTransferences(owner uint, filter TransferenceFilter, offset, limit int) ([]domain.Transference, int64, error)
	SaveTransference(transference *domain.Transference) error
	DeleteTransference(transference *domain.Transference) error
	CountTransferencesByWallet(owner, walletID uint) (int64, error)

	// Automatic transactions
	GetAutomaticTransaction(owner, id uint) (*domain.AutomaticTransaction, error)
	ListAutomaticTransactions(owner uint, offset, limit int) ([]domain.AutomaticTransaction, int64, error)
	// ListDueAutomaticTransactions is system-wide, not owner-scoped: the
	// daily run processes every user's due rules. "Due" means
	// next_transaction_date <= day, so missed runs catch up.
	ListDueAutomaticTransactions(day time.Time) ([]domain.AutomaticTransaction, error)
	SaveAutomaticTransaction(rule *domain.AutomaticTransaction) error
	DeleteAutomaticTransaction(rule *domain.AutomaticTransaction) error
	DeleteAutomaticTransactionsByWallet(owner, walletID uint) error
}

// Store adds transactional composition on top of Repository.
type Store interface {
	Repository
	// Atomically runs fn against a Repository whose writes all commit or
	// all roll back together.
	Atomically(fn func(Repository) error) error
}
