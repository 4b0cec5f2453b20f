package services

import (
	"context"

	"github.com/gigpay/wallet-service/internal/models"
	repo "github.com/gigpay/wallet-service/internal/repository"
)

// recentTransactions bounds the history page returned with a wallet read.
const recentTransactions = 10

// WalletService is the read side of the ledger. It takes no locks: a read
// racing a commit sees either the pre- or post-commit wallet, never a torn
// intermediate state.
type WalletService struct {
	wallets repo.Wallets
	txns    repo.Transactions
}

func NewWalletService(w repo.Wallets, t repo.Transactions) *WalletService {
	return &WalletService{wallets: w, txns: t}
}

// GetOrCreateWallet returns the candidate's wallet with its most recent
// transactions, newest first. The first access creates a zero-balance wallet.
func (s *WalletService) GetOrCreateWallet(ctx context.Context, candidateID string) (models.WalletWithTransactions, error) {
	w, err := s.wallets.GetOrCreate(ctx, candidateID)
	if err != nil {
		return models.WalletWithTransactions{}, err
	}
	txns, err := s.txns.ListByWallet(ctx, w.ID, recentTransactions)
	if err != nil {
		return models.WalletWithTransactions{}, err
	}
	return models.WalletWithTransactions{Wallet: w, Transactions: txns}, nil
}
