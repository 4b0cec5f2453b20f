package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Checked with errors.Is; the HTTP layer maps these to response codes.
var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPayoutFinalized     = errors.New("payout already finalized")
	ErrInvalidStatus       = errors.New("payout status must be COMPLETED or FAILED")
)

// InsufficientBalanceError carries the offending amounts for display and
// logging. It unwraps to ErrInsufficientBalance so errors.Is still works.
type InsufficientBalanceError struct {
	WalletID  string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %s, need %s", e.Balance, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }
