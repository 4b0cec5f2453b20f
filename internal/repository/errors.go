package repository

import "errors"

// Checked by callers with errors.Is; the postgres layer maps pgx.ErrNoRows
// onto these so services never see driver errors for missing rows.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrPayoutNotFound    = errors.New("payout not found")
)
