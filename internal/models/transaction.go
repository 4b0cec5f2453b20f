package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxnEarning   TransactionType = "EARNING"
	TxnBonus     TransactionType = "BONUS"
	TxnRefund    TransactionType = "REFUND"
	TxnPayout    TransactionType = "PAYOUT"
	TxnDeduction TransactionType = "DEDUCTION"
)

// IsCredit reports whether the type adds to the balance. Anything outside the
// credit set is treated as a debit, so new debit kinds need no code change.
func (t TransactionType) IsCredit() bool {
	switch t {
	case TxnEarning, TxnBonus, TxnRefund:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TxnPending   TransactionStatus = "PENDING"
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnFailed    TransactionStatus = "FAILED"
)

// Transaction is one immutable ledger entry. BalanceBefore/BalanceAfter are
// snapshots taken at write time; only the status of a PAYOUT hold entry may
// change afterwards, and only when its payout resolves.
type Transaction struct {
	ID            string            `json:"id"`
	WalletID      string            `json:"wallet_id"`
	PayoutID      *string           `json:"payout_id,omitempty"`
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	Status        TransactionStatus `json:"status"`
	BalanceBefore decimal.Decimal   `json:"balance_before"`
	BalanceAfter  decimal.Decimal   `json:"balance_after"`
	Description   string            `json:"description"`
	Metadata      map[string]any    `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	ProcessedAt   *time.Time        `json:"processed_at,omitempty"`
}
