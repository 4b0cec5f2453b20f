package postgres

import (
	"context"

	"github.com/gigpay/wallet-service/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type payoutsRepo struct{ pool *pgxpool.Pool }

func (r *payoutsRepo) List(ctx context.Context, status *models.PayoutStatus) ([]models.PayoutListing, error) {
	const q = `
SELECT p.id, p.wallet_id, p.amount, p.status, p.payment_method, p.payment_details,
       p.requested_at, p.processed_at, p.completed_at, p.failure_reason, p.payment_gateway_id,
       c.id, c.full_name, u.email
  FROM payouts p
  JOIN wallets w ON w.id = p.wallet_id
  JOIN candidates c ON c.id = w.candidate_id
  JOIN users u ON u.id = c.user_id
 WHERE ($1::text IS NULL OR p.status = $1)
 ORDER BY p.requested_at DESC`

	var arg any
	if status != nil {
		arg = string(*status)
	}
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PayoutListing
	for rows.Next() {
		var l models.PayoutListing
		if err := rows.Scan(
			&l.ID, &l.WalletID, &l.Amount, &l.Status, &l.PaymentMethod, &l.PaymentDetails,
			&l.RequestedAt, &l.ProcessedAt, &l.CompletedAt, &l.FailureReason, &l.PaymentGatewayID,
			&l.CandidateID, &l.CandidateName, &l.Email,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
