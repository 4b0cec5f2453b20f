package services

import (
	"context"
	"testing"

	"github.com/gigpay/wallet-service/internal/models"
	repo "github.com/gigpay/wallet-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayoutFixture(t *testing.T) (*memStore, *LedgerService, *PayoutService) {
	t.Helper()
	store := newMemStore()
	return store, NewLedgerService(store, store, nil), NewPayoutService(store, store, store, store, nil)
}

func bankDetails() map[string]any {
	return map[string]any{"account": "0123456789", "bank": "Equity"}
}

func TestRequestPayout_HoldsFunds(t *testing.T) {
	ctx := context.Background()
	store, ledger, payouts := newPayoutFixture(t)
	w, err := store.GetOrCreate(ctx, "cand-1")
	require.NoError(t, err)
	_, err = ledger.RecordTransaction(ctx, "cand-1", models.TxnEarning, dec(100), "", nil)
	require.NoError(t, err)

	p, err := payouts.RequestPayout(ctx, "cand-1", dec(40), "bank", bankDetails())
	require.NoError(t, err)

	assert.Equal(t, models.PayoutPending, p.Status)
	assert.True(t, p.Amount.Equal(dec(40)))
	assert.Equal(t, w.ID, p.WalletID)
	assert.False(t, p.RequestedAt.IsZero())

	got := store.wallet("cand-1")
	assert.True(t, got.Balance.Equal(dec(60)), "held funds leave the spendable balance immediately")
	assert.True(t, got.TotalWithdrawn.Equal(dec(40)))

	txns := store.allTxns(w.ID)
	require.Len(t, txns, 2)
	hold := txns[1]
	assert.Equal(t, models.TxnPayout, hold.Type)
	assert.Equal(t, models.TxnPending, hold.Status)
	assert.True(t, hold.BalanceBefore.Equal(dec(100)))
	assert.True(t, hold.BalanceAfter.Equal(dec(60)))
	require.NotNil(t, hold.PayoutID)
	assert.Equal(t, p.ID, *hold.PayoutID)
}

func TestRequestPayout_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	store, ledger, payouts := newPayoutFixture(t)
	w, err := store.GetOrCreate(ctx, "cand-1")
	require.NoError(t, err)
	_, err = ledger.RecordTransaction(ctx, "cand-1", models.TxnEarning, dec(100), "", nil)
	require.NoError(t, err)

	_, err = payouts.RequestPayout(ctx, "cand-1", dec(150), "bank", bankDetails())
	require.ErrorIs(t, err, ErrInsufficientBalance)

	got := store.wallet("cand-1")
	assert.True(t, got.Balance.Equal(dec(100)))
	assert.True(t, got.TotalWithdrawn.IsZero())
	assert.Len(t, store.allTxns(w.ID), 1)

	all, err := payouts.ListPayouts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRequestPayout_CreatesWalletLazily(t *testing.T) {
	ctx := context.Background()
	store, _, payouts := newPayoutFixture(t)

	// First wallet access for the candidate: the row is created, then the
	// zero balance fails the check.
	_, err := payouts.RequestPayout(ctx, "fresh", dec(10), "bank", bankDetails())
	require.ErrorIs(t, err, ErrInsufficientBalance)

	w, err := store.GetByCandidate(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero())
}

func TestRequestPayout_InvalidAmount(t *testing.T) {
	ctx := context.Background()
	_, _, payouts := newPayoutFixture(t)

	_, err := payouts.RequestPayout(ctx, "cand-1", dec(0), "bank", bankDetails())
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestResolvePayout_Completed(t *testing.T) {
	ctx := context.Background()
	store, ledger, payouts := newPayoutFixture(t)
	w, err := store.GetOrCreate(ctx, "cand-1")
	require.NoError(t, err)
	_, err = ledger.RecordTransaction(ctx, "cand-1", models.TxnEarning, dec(100), "", nil)
	require.NoError(t, err)
	p, err := payouts.RequestPayout(ctx, "cand-1", dec(40), "bank", bankDetails())
	require.NoError(t, err)

	resolved, err := payouts.ResolvePayout(ctx, p.ID, models.PayoutCompleted, "", "gw-789")
	require.NoError(t, err)

	assert.Equal(t, models.PayoutCompleted, resolved.Status)
	require.NotNil(t, resolved.ProcessedAt)
	require.NotNil(t, resolved.CompletedAt)
	require.NotNil(t, resolved.PaymentGatewayID)
	assert.Equal(t, "gw-789", *resolved.PaymentGatewayID)
	assert.Nil(t, resolved.FailureReason)

	// Completion executes the hold; the balance does not move again.
	got := store.wallet("cand-1")
	assert.True(t, got.Balance.Equal(dec(60)))
	assert.True(t, got.TotalWithdrawn.Equal(dec(40)))

	hold := store.allTxns(w.ID)[1]
	assert.Equal(t, models.TxnCompleted, hold.Status)
	require.NotNil(t, hold.ProcessedAt)
}

func TestResolvePayout_FailedReleasesHold(t *testing.T) {
	ctx := context.Background()
	store, ledger, payouts := newPayoutFixture(t)
	w, err := store.GetOrCreate(ctx, "cand-1")
	require.NoError(t, err)
	_, err = ledger.RecordTransaction(ctx, "cand-1", models.TxnEarning, dec(100), "", nil)
	require.NoError(t, err)
	p, err := payouts.RequestPayout(ctx, "cand-1", dec(40), "mpesa", map[string]any{"phone": "+254700000000"})
	require.NoError(t, err)

	resolved, err := payouts.ResolvePayout(ctx, p.ID, models.PayoutFailed, "gateway timeout", "")
	require.NoError(t, err)

	assert.Equal(t, models.PayoutFailed, resolved.Status)
	require.NotNil(t, resolved.ProcessedAt)
	assert.Nil(t, resolved.CompletedAt)
	require.NotNil(t, resolved.FailureReason)
	assert.Equal(t, "gateway timeout", *resolved.FailureReason)

	// The held amount goes back to the spendable balance.
	got := store.wallet("cand-1")
	assert.True(t, got.Balance.Equal(dec(100)))
	assert.True(t, got.TotalWithdrawn.IsZero())

	hold := store.allTxns(w.ID)[1]
	assert.Equal(t, models.TxnFailed, hold.Status)
}

func TestResolvePayout_TerminalIsImmutable(t *testing.T) {
	ctx := context.Background()
	store, ledger, payouts := newPayoutFixture(t)
	_, err := store.GetOrCreate(ctx, "cand-1")
	require.NoError(t, err)
	_, err = ledger.RecordTransaction(ctx, "cand-1", models.TxnEarning, dec(100), "", nil)
	require.NoError(t, err)
	p, err := payouts.RequestPayout(ctx, "cand-1", dec(40), "bank", bankDetails())
	require.NoError(t, err)

	first, err := payouts.ResolvePayout(ctx, p.ID, models.PayoutCompleted, "", "")
	require.NoError(t, err)

	_, err = payouts.ResolvePayout(ctx, p.ID, models.PayoutFailed, "oops", "")
	require.ErrorIs(t, err, ErrPayoutFinalized)

	// The terminal record is unchanged and the balance did not move.
	listed, err := payouts.ListPayouts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.Status, listed[0].Status)
	assert.True(t, store.wallet("cand-1").Balance.Equal(dec(60)))
}

func TestResolvePayout_NotFound(t *testing.T) {
	ctx := context.Background()
	_, _, payouts := newPayoutFixture(t)

	_, err := payouts.ResolvePayout(ctx, "missing", models.PayoutCompleted, "", "")
	assert.ErrorIs(t, err, repo.ErrPayoutNotFound)
}

func TestResolvePayout_NonTerminalTarget(t *testing.T) {
	ctx := context.Background()
	_, _, payouts := newPayoutFixture(t)

	_, err := payouts.ResolvePayout(ctx, "any", models.PayoutPending, "", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListPayouts_FiltersByStatus(t *testing.T) {
	ctx := context.Background()
	store, ledger, payouts := newPayoutFixture(t)
	_, err := store.GetOrCreate(ctx, "cand-1")
	require.NoError(t, err)
	_, err = ledger.RecordTransaction(ctx, "cand-1", models.TxnEarning, dec(100), "", nil)
	require.NoError(t, err)

	p1, err := payouts.RequestPayout(ctx, "cand-1", dec(10), "bank", bankDetails())
	require.NoError(t, err)
	p2, err := payouts.RequestPayout(ctx, "cand-1", dec(20), "bank", bankDetails())
	require.NoError(t, err)
	_, err = payouts.ResolvePayout(ctx, p1.ID, models.PayoutCompleted, "", "")
	require.NoError(t, err)

	pending := models.PayoutPending
	got, err := payouts.ListPayouts(ctx, &pending)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p2.ID, got[0].ID)

	all, err := payouts.ListPayouts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPayoutEndToEnd(t *testing.T) {
	ctx := context.Background()
	store, ledger, payouts := newPayoutFixture(t)
	_, err := store.GetOrCreate(ctx, "cand-1")
	require.NoError(t, err)

	_, err = ledger.RecordTransaction(ctx, "cand-1", models.TxnEarning, dec(850), "monthly earnings", nil)
	require.NoError(t, err)
	assert.True(t, store.wallet("cand-1").Balance.Equal(dec(850)))

	p, err := payouts.RequestPayout(ctx, "cand-1", dec(400), "bank", bankDetails())
	require.NoError(t, err)
	assert.Equal(t, models.PayoutPending, p.Status)
	assert.True(t, store.wallet("cand-1").Balance.Equal(dec(450)))

	_, err = payouts.ResolvePayout(ctx, p.ID, models.PayoutCompleted, "", "gw-1")
	require.NoError(t, err)

	got := store.wallet("cand-1")
	assert.True(t, got.Balance.Equal(dec(450)))
	assert.True(t, got.TotalEarned.Equal(dec(850)))
	assert.True(t, got.TotalWithdrawn.Equal(dec(400)))
}
