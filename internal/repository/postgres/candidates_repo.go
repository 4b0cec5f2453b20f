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

type candidatesRepo struct{ pool *pgxpool.Pool }

func (r *candidatesRepo) Create(ctx context.Context, userID, fullName string) (models.Candidate, error) {
	var c models.Candidate
	err := r.pool.QueryRow(ctx,
		`INSERT INTO candidates(id, user_id, full_name) VALUES($1,$2,$3)
		 RETURNING id, user_id, full_name, created_at`,
		uuid.NewString(), userID, fullName,
	).Scan(&c.ID, &c.UserID, &c.FullName, &c.CreatedAt)
	return c, err
}

func (r *candidatesRepo) GetByUserID(ctx context.Context, userID string) (models.Candidate, error) {
	var c models.Candidate
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, full_name, created_at FROM candidates WHERE user_id=$1`,
		userID,
	).Scan(&c.ID, &c.UserID, &c.FullName, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Candidate{}, repo.ErrCandidateNotFound
	}
	return c, err
}
