package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gigpay/wallet-service/internal/models"
	repo "github.com/gigpay/wallet-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ledgerRepo struct{ pool *pgxpool.Pool }

// WithTx runs fn inside one database transaction. Serialization of concurrent
// writers is by row locks (FOR UPDATE in the Lock* methods), not isolation
// level: same-wallet writers queue, different wallets never block each other.
func (r *ledgerRepo) WithTx(ctx context.Context, fn func(repo.LedgerTx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	if err != nil {
		return err
	}
	if err := fn(&ledgerTx{tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type ledgerTx struct{ tx pgx.Tx }

const walletCols = `id, candidate_id, balance, total_earned, total_withdrawn, created_at, updated_at`

func (l *ledgerTx) lockWallet(ctx context.Context, where, key string) (models.Wallet, error) {
	var w models.Wallet
	err := l.tx.QueryRow(ctx,
		`SELECT `+walletCols+` FROM wallets WHERE `+where+`=$1 FOR UPDATE`, key,
	).Scan(&w.ID, &w.CandidateID, &w.Balance, &w.TotalEarned, &w.TotalWithdrawn, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Wallet{}, repo.ErrWalletNotFound
	}
	return w, err
}

func (l *ledgerTx) LockWallet(ctx context.Context, candidateID string) (models.Wallet, error) {
	return l.lockWallet(ctx, "candidate_id", candidateID)
}

func (l *ledgerTx) LockWalletByID(ctx context.Context, walletID string) (models.Wallet, error) {
	return l.lockWallet(ctx, "id", walletID)
}

func (l *ledgerTx) SaveWallet(ctx context.Context, w models.Wallet) error {
	_, err := l.tx.Exec(ctx,
		`UPDATE wallets
		    SET balance=$2, total_earned=$3, total_withdrawn=$4, updated_at=now()
		  WHERE id=$1`,
		w.ID, w.Balance, w.TotalEarned, w.TotalWithdrawn,
	)
	return err
}

func (l *ledgerTx) InsertTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}
	err := l.tx.QueryRow(ctx,
		`INSERT INTO transactions(
		   id, wallet_id, payout_id, type, amount, status,
		   balance_before, balance_after, description, metadata, processed_at
		 ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 RETURNING created_at`,
		t.ID, t.WalletID, t.PayoutID, t.Type, t.Amount, t.Status,
		t.BalanceBefore, t.BalanceAfter, t.Description, t.Metadata, t.ProcessedAt,
	).Scan(&t.CreatedAt)
	return t, err
}

func (l *ledgerTx) MarkPayoutTransaction(ctx context.Context, payoutID string, status models.TransactionStatus, processedAt time.Time) error {
	_, err := l.tx.Exec(ctx,
		`UPDATE transactions SET status=$2, processed_at=$3 WHERE payout_id=$1`,
		payoutID, status, processedAt,
	)
	return err
}

func (l *ledgerTx) InsertPayout(ctx context.Context, p models.Payout) (models.Payout, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PaymentDetails == nil {
		p.PaymentDetails = map[string]any{}
	}
	err := l.tx.QueryRow(ctx,
		`INSERT INTO payouts(id, wallet_id, amount, status, payment_method, payment_details)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING requested_at`,
		p.ID, p.WalletID, p.Amount, p.Status, p.PaymentMethod, p.PaymentDetails,
	).Scan(&p.RequestedAt)
	return p, err
}

func (l *ledgerTx) LockPayout(ctx context.Context, id string) (models.Payout, error) {
	var p models.Payout
	err := l.tx.QueryRow(ctx,
		`SELECT id, wallet_id, amount, status, payment_method, payment_details,
		        requested_at, processed_at, completed_at, failure_reason, payment_gateway_id
		   FROM payouts
		  WHERE id=$1
		  FOR UPDATE`,
		id,
	).Scan(&p.ID, &p.WalletID, &p.Amount, &p.Status, &p.PaymentMethod, &p.PaymentDetails,
		&p.RequestedAt, &p.ProcessedAt, &p.CompletedAt, &p.FailureReason, &p.PaymentGatewayID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Payout{}, repo.ErrPayoutNotFound
	}
	return p, err
}

func (l *ledgerTx) SavePayout(ctx context.Context, p models.Payout) error {
	_, err := l.tx.Exec(ctx,
		`UPDATE payouts
		    SET status=$2, processed_at=$3, completed_at=$4, failure_reason=$5, payment_gateway_id=$6
		  WHERE id=$1`,
		p.ID, p.Status, p.ProcessedAt, p.CompletedAt, p.FailureReason, p.PaymentGatewayID,
	)
	return err
}
