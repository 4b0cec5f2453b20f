package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gigpay/wallet-service/internal/metrics"
	"github.com/gigpay/wallet-service/internal/models"
	repo "github.com/gigpay/wallet-service/internal/repository"
	"github.com/gigpay/wallet-service/internal/worker"
	"github.com/shopspring/decimal"
)

// PayoutService owns the payout lifecycle: PENDING at request time, then one
// terminal transition to COMPLETED or FAILED. Funds are held the moment the
// request is accepted, so the spendable balance seen by any later balance
// check already excludes every pending payout.
type PayoutService struct {
	ledger  repo.Ledger
	wallets repo.Wallets
	payouts repo.Payouts
	audit   auditor
}

func NewPayoutService(l repo.Ledger, w repo.Wallets, p repo.Payouts, a repo.AuditLogs, wp *worker.Pool) *PayoutService {
	return &PayoutService{ledger: l, wallets: w, payouts: p, audit: auditor{log: a, wp: wp}}
}

// RequestPayout creates a PENDING payout and, in the same unit of work,
// deducts the amount from the wallet and appends the linked PAYOUT hold
// entry to the ledger.
func (s *PayoutService) RequestPayout(
	ctx context.Context,
	candidateID string,
	amount decimal.Decimal,
	paymentMethod string,
	paymentDetails map[string]any,
) (models.Payout, error) {
	if !amount.IsPositive() {
		return models.Payout{}, ErrInvalidAmount
	}
	// First wallet access for a candidate creates the row; the request then
	// fails the balance check rather than a lookup.
	if _, err := s.wallets.GetOrCreate(ctx, candidateID); err != nil {
		return models.Payout{}, err
	}

	var out models.Payout
	err := s.ledger.WithTx(ctx, func(tx repo.LedgerTx) error {
		w, err := tx.LockWallet(ctx, candidateID)
		if err != nil {
			return err
		}
		if w.Balance.LessThan(amount) {
			return &InsufficientBalanceError{WalletID: w.ID, Balance: w.Balance, Requested: amount}
		}

		out, err = tx.InsertPayout(ctx, models.Payout{
			WalletID:       w.ID,
			Amount:         amount,
			Status:         models.PayoutPending,
			PaymentMethod:  paymentMethod,
			PaymentDetails: paymentDetails,
		})
		if err != nil {
			return err
		}

		after := w.Balance.Sub(amount)
		if _, err = tx.InsertTransaction(ctx, models.Transaction{
			WalletID:      w.ID,
			PayoutID:      &out.ID,
			Type:          models.TxnPayout,
			Amount:        amount,
			Status:        models.TxnPending,
			BalanceBefore: w.Balance,
			BalanceAfter:  after,
			Description:   fmt.Sprintf("Payout request %s", out.ID),
		}); err != nil {
			return err
		}

		w.Balance = after
		w.TotalWithdrawn = w.TotalWithdrawn.Add(amount)
		return tx.SaveWallet(ctx, w)
	})
	if err != nil {
		metrics.TransactionsRejected.Inc()
		return models.Payout{}, err
	}

	metrics.PayoutsTotal.WithLabelValues(string(models.PayoutPending)).Inc()
	s.audit.record("payout", out.ID, "requested", map[string]any{
		"wallet_id": out.WalletID,
		"amount":    amount.String(),
		"method":    paymentMethod,
	})
	return out, nil
}

// ResolvePayout moves a PENDING payout to COMPLETED or FAILED. Resolving an
// already-terminal payout fails with ErrPayoutFinalized and changes nothing.
// On FAILED the hold is released: the amount goes back to the balance, the
// totalWithdrawn increment is reversed, and the linked ledger entry is marked
// FAILED so the audit trail shows both the hold and its release.
func (s *PayoutService) ResolvePayout(
	ctx context.Context,
	payoutID string,
	status models.PayoutStatus,
	failureReason string,
	paymentGatewayID string,
) (models.Payout, error) {
	if !status.Terminal() {
		return models.Payout{}, ErrInvalidStatus
	}

	var out models.Payout
	err := s.ledger.WithTx(ctx, func(tx repo.LedgerTx) error {
		p, err := tx.LockPayout(ctx, payoutID)
		if err != nil {
			return err
		}
		if p.Status.Terminal() {
			return ErrPayoutFinalized
		}

		now := time.Now().UTC()
		p.Status = status
		p.ProcessedAt = &now
		if status == models.PayoutCompleted {
			p.CompletedAt = &now
		}
		if failureReason != "" {
			p.FailureReason = &failureReason
		}
		if paymentGatewayID != "" {
			p.PaymentGatewayID = &paymentGatewayID
		}
		if err := tx.SavePayout(ctx, p); err != nil {
			return err
		}

		txnStatus := models.TxnCompleted
		if status == models.PayoutFailed {
			txnStatus = models.TxnFailed
		}
		if err := tx.MarkPayoutTransaction(ctx, p.ID, txnStatus, now); err != nil {
			return err
		}

		if status == models.PayoutFailed {
			w, err := tx.LockWalletByID(ctx, p.WalletID)
			if err != nil {
				return err
			}
			w.Balance = w.Balance.Add(p.Amount)
			w.TotalWithdrawn = w.TotalWithdrawn.Sub(p.Amount)
			if err := tx.SaveWallet(ctx, w); err != nil {
				return err
			}
		}

		out = p
		return nil
	})
	if err != nil {
		return models.Payout{}, err
	}

	metrics.PayoutsTotal.WithLabelValues(string(status)).Inc()
	s.audit.record("payout", out.ID, "resolved", map[string]any{
		"status": string(status),
		"reason": failureReason,
	})
	return out, nil
}

// ListPayouts returns payouts newest-first with candidate identity joined,
// optionally filtered by status.
func (s *PayoutService) ListPayouts(ctx context.Context, status *models.PayoutStatus) ([]models.PayoutListing, error) {
	return s.payouts.List(ctx, status)
}
