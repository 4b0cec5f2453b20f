package postgres

import (
	"context"

	"github.com/gigpay/wallet-service/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

func (r *transactionsRepo) ListByWallet(ctx context.Context, walletID string, limit int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, wallet_id, payout_id, type, amount, status,
		        balance_before, balance_after, description, metadata, created_at, processed_at
		   FROM transactions
		  WHERE wallet_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2`,
		walletID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID, &t.WalletID, &t.PayoutID, &t.Type, &t.Amount, &t.Status,
			&t.BalanceBefore, &t.BalanceAfter, &t.Description, &t.Metadata, &t.CreatedAt, &t.ProcessedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
