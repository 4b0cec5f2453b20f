package repository

import (
	"context"
	"time"

	"github.com/gigpay/wallet-service/internal/models"
)

type Users interface {
	Create(ctx context.Context, username, email, passwordHash, role string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

type Candidates interface {
	Create(ctx context.Context, userID, fullName string) (models.Candidate, error)
	GetByUserID(ctx context.Context, userID string) (models.Candidate, error)
}

// Wallets is the lock-free read side. GetOrCreate is the lazy-create path:
// the first wallet access for a candidate inserts a zero-balance row.
type Wallets interface {
	GetOrCreate(ctx context.Context, candidateID string) (models.Wallet, error)
	GetByCandidate(ctx context.Context, candidateID string) (models.Wallet, error)
}

type Transactions interface {
	ListByWallet(ctx context.Context, walletID string, limit int) ([]models.Transaction, error)
}

type Payouts interface {
	// List returns payouts newest-first with candidate identity joined in,
	// optionally filtered by status.
	List(ctx context.Context, status *models.PayoutStatus) ([]models.PayoutListing, error)
}

// LedgerTx is the mutation surface scoped to one database transaction. Lock
// methods take a row lock on the wallet/payout so concurrent mutations of the
// same row are strictly ordered; rows the caller never locks stay unblocked.
type LedgerTx interface {
	LockWallet(ctx context.Context, candidateID string) (models.Wallet, error)
	LockWalletByID(ctx context.Context, walletID string) (models.Wallet, error)
	SaveWallet(ctx context.Context, w models.Wallet) error

	InsertTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	// MarkPayoutTransaction flips the status of the hold entry linked to the
	// given payout when the payout reaches a terminal state.
	MarkPayoutTransaction(ctx context.Context, payoutID string, status models.TransactionStatus, processedAt time.Time) error

	InsertPayout(ctx context.Context, p models.Payout) (models.Payout, error)
	LockPayout(ctx context.Context, id string) (models.Payout, error)
	SavePayout(ctx context.Context, p models.Payout) error
}

// Ledger runs fn inside a single atomic unit of work. fn returning an error
// rolls back everything it did; a nil return commits everything at once.
type Ledger interface {
	WithTx(ctx context.Context, fn func(LedgerTx) error) error
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
