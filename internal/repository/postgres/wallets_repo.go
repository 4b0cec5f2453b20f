package postgres

import (
	"context"
	"errors"

	"github.com/gigpay/wallet-service/internal/models"
	repo "github.com/gigpay/wallet-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type walletsRepo struct{ pool *pgxpool.Pool }

func (r *walletsRepo) GetOrCreate(ctx context.Context, candidateID string) (models.Wallet, error) {
	if w, err := r.GetByCandidate(ctx, candidateID); err == nil {
		return w, nil
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wallets(id, candidate_id, balance, total_earned, total_withdrawn)
		 VALUES($1, $2, 0, 0, 0)
		 ON CONFLICT (candidate_id) DO NOTHING`,
		uuid.NewString(), candidateID,
	)
	if err != nil {
		return models.Wallet{}, err
	}
	return r.GetByCandidate(ctx, candidateID)
}

func (r *walletsRepo) GetByCandidate(ctx context.Context, candidateID string) (models.Wallet, error) {
	var w models.Wallet
	err := r.pool.QueryRow(ctx,
		`SELECT id, candidate_id, balance, total_earned, total_withdrawn, created_at, updated_at
		   FROM wallets
		  WHERE candidate_id=$1`,
		candidateID,
	).Scan(&w.ID, &w.CandidateID, &w.Balance, &w.TotalEarned, &w.TotalWithdrawn, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Wallet{}, repo.ErrWalletNotFound
	}
	return w, err
}
