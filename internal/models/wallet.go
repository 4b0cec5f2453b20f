package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the denormalized balance row for one candidate. The transaction
// ledger is the source of truth; balance/totals are maintained in the same
// atomic unit as every ledger insert.
type Wallet struct {
	ID             string          `json:"id"`
	CandidateID    string          `json:"candidate_id"`
	Balance        decimal.Decimal `json:"balance"`
	TotalEarned    decimal.Decimal `json:"total_earned"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// WalletWithTransactions is the get-wallet read shape: the wallet plus its
// most recent ledger entries, newest first.
type WalletWithTransactions struct {
	Wallet
	Transactions []Transaction `json:"transactions"`
}
