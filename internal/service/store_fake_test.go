package service_test

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"finance_system/internal/domain"
	"finance_system/internal/repository"
)

// fakeStore is an in-memory Store for service tests. Reads hand out
// copies and Atomically restores a snapshot on error, mirroring the
// all-or-nothing semantics of the real database transaction.
type fakeStore struct {
	wallets       map[uint]*domain.Wallet
	transactions  map[uint]*domain.Transaction
	transferences map[uint]*domain.Transference
	rules         map[uint]*domain.AutomaticTransaction
	nextID        uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets:       make(map[uint]*domain.Wallet),
		transactions:  make(map[uint]*domain.Transaction),
		transferences: make(map[uint]*domain.Transference),
		rules:         make(map[uint]*domain.AutomaticTransaction),
	}
}

type fakeSnapshot struct {
	wallets       map[uint]*domain.Wallet
	transactions  map[uint]*domain.Transaction
	transferences map[uint]*domain.Transference
	rules         map[uint]*domain.AutomaticTransaction
	nextID        uint
}

func (s *fakeStore) snapshot() fakeSnapshot {
	snap := fakeSnapshot{
		wallets:       make(map[uint]*domain.Wallet, len(s.wallets)),
		transactions:  make(map[uint]*domain.Transaction, len(s.transactions)),
		transferences: make(map[uint]*domain.Transference, len(s.transferences)),
		rules:         make(map[uint]*domain.AutomaticTransaction, len(s.rules)),
		nextID:        s.nextID,
	}
	for id, w := range s.wallets {
		copied := *w
		snap.wallets[id] = &copied
	}
	for id, t := range s.transactions {
		copied := *t
		snap.transactions[id] = &copied
	}
	for id, t := range s.transferences {
		copied := *t
		snap.transferences[id] = &copied
	}
	for id, r := range s.rules {
		copied := *r
		snap.rules[id] = &copied
	}
	return snap
}

func (s *fakeStore) Atomically(fn func(repository.Repository) error) error {
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.wallets = snap.wallets
		s.transactions = snap.transactions
		s.transferences = snap.transferences
		s.rules = snap.rules
		s.nextID = snap.nextID
		return err
	}
	return nil
}

func (s *fakeStore) allocate() uint {
	s.nextID++
	return s.nextID
}

// Wallets

func (s *fakeStore) GetWallet(owner, id uint) (*domain.Wallet, error) {
	wallet, ok := s.wallets[id]
	if !ok || wallet.UserID != owner {
		return nil, fmt.Errorf("wallet %d: %w", id, domain.ErrNotFound)
	}
	copied := *wallet
	return &copied, nil
}

func (s *fakeStore) GetWalletForUpdate(owner, id uint) (*domain.Wallet, error) {
	return s.GetWallet(owner, id)
}

func (s *fakeStore) ListWallets(owner uint, name string, offset, limit int) ([]domain.Wallet, int64, error) {
	var matched []domain.Wallet
	for _, wallet := range s.wallets {
		if wallet.UserID != owner {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(wallet.Name), name) {
			continue
		}
		matched = append(matched, *wallet)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, offset, limit), int64(len(matched)), nil
}

func (s *fakeStore) SaveWallet(wallet *domain.Wallet) error {
	if wallet.ID == 0 {
		wallet.ID = s.allocate()
	}
	copied := *wallet
	s.wallets[wallet.ID] = &copied
	return nil
}

func (s *fakeStore) DeleteWallet(wallet *domain.Wallet) error {
	delete(s.wallets, wallet.ID)
	return nil
}

// Transactions

func (s *fakeStore) GetTransaction(owner, id uint) (*domain.Transaction, error) {
	transaction, ok := s.transactions[id]
	if !ok || transaction.UserID != owner {
		return nil, fmt.Errorf("transaction %d: %w", id, domain.ErrNotFound)
	}
	copied := *transaction
	return &copied, nil
}

func (s *fakeStore) ListTransactions(owner uint, offset, limit int) ([]domain.Transaction, int64, error) {
	var matched []domain.Transaction
	for _, transaction := range s.transactions {
		if transaction.UserID == owner {
			matched = append(matched, *transaction)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, offset, limit), int64(len(matched)), nil
}

func (s *fakeStore) ListTransactionsByRange(owner uint, start, end time.Time) ([]domain.Transaction, error) {
	var matched []domain.Transaction
	for _, transaction := range s.transactions {
		if transaction.UserID != owner {
			continue
		}
		if transaction.Date.Before(start) || transaction.Date.After(end) {
			continue
		}
		matched = append(matched, *transaction)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (s *fakeStore) SaveTransaction(transaction *domain.Transaction) error {
	if transaction.ID == 0 {
		transaction.ID = s.allocate()
	}
	copied := *transaction
	s.transactions[transaction.ID] = &copied
	return nil
}

func (s *fakeStore) DeleteTransaction(transaction *domain.Transaction) error {
	delete(s.transactions, transaction.ID)
	return nil
}

func (s *fakeStore) DeleteTransactionsByWallet(owner, walletID uint) error {
	for id, transaction := range s.transactions {
		if transaction.UserID == owner && transaction.WalletID == walletID {
			delete(s.transactions, id)
		}
	}
	return nil
}

// Transferences

func (s *fakeStore) GetTransference(owner, id uint) (*domain.Transference, error) {
	transference, ok := s.transferences[id]
	if !ok || transference.UserID != owner {
		return nil, fmt.Errorf("transference %d: %w", id, domain.ErrNotFound)
	}
	copied := *transference
	return &copied, nil
}

func (s *fakeStore) ListTransferences(owner uint, filter repository.TransferenceFilter, offset, limit int) ([]domain.Transference, int64, error) {
	var matched []domain.Transference
	for _, transference := range s.transferences {
		if transference.UserID != owner {
			continue
		}
		if filter.SenderWalletID != 0 && transference.FromWalletID != filter.SenderWalletID {
			continue
		}
		if filter.ReceiverWalletID != 0 && transference.ToWalletID != filter.ReceiverWalletID {
			continue
		}
		if !filter.StartDate.IsZero() && transference.Date.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && transference.Date.After(filter.EndDate) {
			continue
		}
		matched = append(matched, *transference)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, offset, limit), int64(len(matched)), nil
}

func (s *fakeStore) SaveTransference(transference *domain.Transference) error {
	if transference.ID == 0 {
		transference.ID = s.allocate()
	}
	copied := *transference
	s.transferences[transference.ID] = &copied
	return nil
}

func (s *fakeStore) DeleteTransference(transference *domain.Transference) error {
	delete(s.transferences, transference.ID)
	return nil
}

func (s *fakeStore) CountTransferencesByWallet(owner, walletID uint) (int64, error) {
	var total int64
	for _, transference := range s.transferences {
		if transference.UserID != owner {
			continue
		}
		if transference.FromWalletID == walletID || transference.ToWalletID == walletID {
			total++
		}
	}
	return total, nil
}

// Automatic transactions

func (s *fakeStore) GetAutomaticTransaction(owner, id uint) (*domain.AutomaticTransaction, error) {
	rule, ok := s.rules[id]
	if !ok || rule.UserID != owner {
		return nil, fmt.Errorf("automatic transaction %d: %w", id, domain.ErrNotFound)
	}
	copied := *rule
	return &copied, nil
}

func (s *fakeStore) ListAutomaticTransactions(owner uint, offset, limit int) ([]domain.AutomaticTransaction, int64, error) {
	var matched []domain.AutomaticTransaction
	for _, rule := range s.rules {
		if rule.UserID == owner {
			matched = append(matched, *rule)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, offset, limit), int64(len(matched)), nil
}

func (s *fakeStore) ListDueAutomaticTransactions(day time.Time) ([]domain.AutomaticTransaction, error) {
	var matched []domain.AutomaticTransaction
	for _, rule := range s.rules {
		if !rule.NextTransactionDate.After(day) {
			matched = append(matched, *rule)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (s *fakeStore) SaveAutomaticTransaction(rule *domain.AutomaticTransaction) error {
	if rule.ID == 0 {
		rule.ID = s.allocate()
	}
	copied := *rule
	s.rules[rule.ID] = &copied
	return nil
}

func (s *fakeStore) DeleteAutomaticTransaction(rule *domain.AutomaticTransaction) error {
	delete(s.rules, rule.ID)
	return nil
}

func (s *fakeStore) DeleteAutomaticTransactionsByWallet(owner, walletID uint) error {
	for id, rule := range s.rules {
		if rule.UserID == owner && rule.WalletID == walletID {
			delete(s.rules, id)
		}
	}
	return nil
}

// page applies offset/limit to an already sorted slice.
func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
