package services

import (
	"context"
	"time"

	"github.com/gigpay/wallet-service/internal/metrics"
	"github.com/gigpay/wallet-service/internal/models"
	repo "github.com/gigpay/wallet-service/internal/repository"
	"github.com/gigpay/wallet-service/internal/worker"
	"github.com/shopspring/decimal"
)

// LedgerService is the single write path for wallet balances and the
// transaction ledger. Every mutation runs inside one unit of work holding the
// wallet row lock, so two concurrent calls against the same wallet are
// strictly ordered: the second reads the first's committed balance.
type LedgerService struct {
	ledger repo.Ledger
	audit  auditor
}

func NewLedgerService(l repo.Ledger, a repo.AuditLogs, wp *worker.Pool) *LedgerService {
	return &LedgerService{ledger: l, audit: auditor{log: a, wp: wp}}
}

// RecordTransaction appends one ledger entry and applies its delta to the
// wallet. Credit types (EARNING, BONUS, REFUND) add amount; everything else
// subtracts it. A debit that would drive the balance negative is rejected
// with no side effect. The wallet must already exist; callers that may be
// touching a wallet for the first time go through WalletService first.
func (s *LedgerService) RecordTransaction(
	ctx context.Context,
	candidateID string,
	typ models.TransactionType,
	amount decimal.Decimal,
	description string,
	metadata map[string]any,
) (models.Transaction, error) {
	if !amount.IsPositive() {
		return models.Transaction{}, ErrInvalidAmount
	}

	var rec models.Transaction
	err := s.ledger.WithTx(ctx, func(tx repo.LedgerTx) error {
		w, err := tx.LockWallet(ctx, candidateID)
		if err != nil {
			return err
		}

		before := w.Balance
		var after decimal.Decimal
		if typ.IsCredit() {
			after = before.Add(amount)
		} else {
			after = before.Sub(amount)
			if after.IsNegative() {
				return &InsufficientBalanceError{WalletID: w.ID, Balance: before, Requested: amount}
			}
		}

		now := time.Now().UTC()
		rec, err = tx.InsertTransaction(ctx, models.Transaction{
			WalletID:      w.ID,
			Type:          typ,
			Amount:        amount,
			Status:        models.TxnCompleted,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   description,
			Metadata:      metadata,
			ProcessedAt:   &now,
		})
		if err != nil {
			return err
		}

		w.Balance = after
		if typ == models.TxnEarning {
			w.TotalEarned = w.TotalEarned.Add(amount)
		}
		return tx.SaveWallet(ctx, w)
	})
	if err != nil {
		metrics.TransactionsRejected.Inc()
		return models.Transaction{}, err
	}

	metrics.TransactionsTotal.WithLabelValues(string(typ)).Inc()
	s.audit.record("transaction", rec.ID, "recorded", map[string]any{
		"wallet_id": rec.WalletID,
		"type":      string(typ),
		"amount":    amount.String(),
	})
	return rec, nil
}
