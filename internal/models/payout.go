package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "PENDING"
	PayoutCompleted PayoutStatus = "COMPLETED"
	PayoutFailed    PayoutStatus = "FAILED"
)

// Terminal reports whether the status is final. PENDING is the sole initial
// state; COMPLETED and FAILED are immutable once reached.
func (s PayoutStatus) Terminal() bool {
	return s == PayoutCompleted || s == PayoutFailed
}

type Payout struct {
	ID               string          `json:"id"`
	WalletID         string          `json:"wallet_id"`
	Amount           decimal.Decimal `json:"amount"`
	Status           PayoutStatus    `json:"status"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentDetails   map[string]any  `json:"payment_details,omitempty"`
	RequestedAt      time.Time       `json:"requested_at"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	FailureReason    *string         `json:"failure_reason,omitempty"`
	PaymentGatewayID *string         `json:"payment_gateway_id,omitempty"`
}

// PayoutListing joins candidate identity onto a payout for admin display.
type PayoutListing struct {
	Payout
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	Email         string `json:"email"`
}
