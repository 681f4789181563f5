package service

import (
	"sort"

	"finance_system/internal/domain"
	"finance_system/internal/repository"

	"github.com/shopspring/decimal"
)

// applyDelta applies a signed amount to a wallet balance and persists the
// result in the same store transaction. It is the single write path for
// balances: if the delta would make the balance negative the wallet is
// left untouched and the enclosing operation must abort, so no
// transaction or transference record is ever persisted without its
// matching balance change.
func applyDelta(r repository.Repository, wallet *domain.Wallet, delta decimal.Decimal) error {
	if err := wallet.ApplyDelta(delta); err != nil {
		return err
	}
	return r.SaveWallet(wallet)
}

// lockWallets fetches each distinct wallet once with the store's write
// lock, in ascending-id order. Two concurrent operations touching the
// same wallet pair therefore always acquire locks in the same order,
// which rules out deadlock between opposite-direction transfers.
func lockWallets(r repository.Repository, owner uint, ids ...uint) (map[uint]*domain.Wallet, error) {
	distinct := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	wallets := make(map[uint]*domain.Wallet, len(distinct))
	for _, id := range distinct {
		wallet, err := r.GetWalletForUpdate(owner, id)
		if err != nil {
			return nil, err
		}
		wallets[id] = wallet
	}
	return wallets, nil
}
