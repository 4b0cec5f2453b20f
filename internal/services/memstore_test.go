package services

import (
	"context"
	"sync"
	"time"

	"github.com/gigpay/wallet-service/internal/models"
	repo "github.com/gigpay/wallet-service/internal/repository"
	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the postgres repositories. WithTx
// serializes on one mutex and restores a snapshot when fn fails, giving the
// same per-wallet ordering and all-or-nothing semantics as the row-locked
// database transaction.
type memStore struct {
	mu          sync.Mutex
	wallets     map[string]models.Wallet // by wallet id
	byCandidate map[string]string        // candidate id -> wallet id
	txns        []models.Transaction     // insertion order = chronological order
	payouts     map[string]models.Payout
	payoutOrder []string
	audits      []models.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		wallets:     map[string]models.Wallet{},
		byCandidate: map[string]string{},
		payouts:     map[string]models.Payout{},
	}
}

type memSnapshot struct {
	wallets     map[string]models.Wallet
	byCandidate map[string]string
	txns        []models.Transaction
	payouts     map[string]models.Payout
	payoutOrder []string
}

func (m *memStore) snapshot() memSnapshot {
	s := memSnapshot{
		wallets:     make(map[string]models.Wallet, len(m.wallets)),
		byCandidate: make(map[string]string, len(m.byCandidate)),
		txns:        append([]models.Transaction(nil), m.txns...),
		payouts:     make(map[string]models.Payout, len(m.payouts)),
		payoutOrder: append([]string(nil), m.payoutOrder...),
	}
	for k, v := range m.wallets {
		s.wallets[k] = v
	}
	for k, v := range m.byCandidate {
		s.byCandidate[k] = v
	}
	for k, v := range m.payouts {
		s.payouts[k] = v
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.wallets = s.wallets
	m.byCandidate = s.byCandidate
	m.txns = s.txns
	m.payouts = s.payouts
	m.payoutOrder = s.payoutOrder
}

// --- repo.Ledger ---

func (m *memStore) WithTx(_ context.Context, fn func(repo.LedgerTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.snapshot()
	if err := fn(&memTx{m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memTx struct{ s *memStore }

func (t *memTx) LockWallet(_ context.Context, candidateID string) (models.Wallet, error) {
	id, ok := t.s.byCandidate[candidateID]
	if !ok {
		return models.Wallet{}, repo.ErrWalletNotFound
	}
	return t.s.wallets[id], nil
}

func (t *memTx) LockWalletByID(_ context.Context, walletID string) (models.Wallet, error) {
	w, ok := t.s.wallets[walletID]
	if !ok {
		return models.Wallet{}, repo.ErrWalletNotFound
	}
	return w, nil
}

func (t *memTx) SaveWallet(_ context.Context, w models.Wallet) error {
	w.UpdatedAt = time.Now()
	t.s.wallets[w.ID] = w
	return nil
}

func (t *memTx) InsertTransaction(_ context.Context, txn models.Transaction) (models.Transaction, error) {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	txn.CreatedAt = time.Now()
	t.s.txns = append(t.s.txns, txn)
	return txn, nil
}

func (t *memTx) MarkPayoutTransaction(_ context.Context, payoutID string, status models.TransactionStatus, processedAt time.Time) error {
	for i := range t.s.txns {
		if t.s.txns[i].PayoutID != nil && *t.s.txns[i].PayoutID == payoutID {
			t.s.txns[i].Status = status
			t.s.txns[i].ProcessedAt = &processedAt
		}
	}
	return nil
}

func (t *memTx) InsertPayout(_ context.Context, p models.Payout) (models.Payout, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.RequestedAt = time.Now()
	t.s.payouts[p.ID] = p
	t.s.payoutOrder = append(t.s.payoutOrder, p.ID)
	return p, nil
}

func (t *memTx) LockPayout(_ context.Context, id string) (models.Payout, error) {
	p, ok := t.s.payouts[id]
	if !ok {
		return models.Payout{}, repo.ErrPayoutNotFound
	}
	return p, nil
}

func (t *memTx) SavePayout(_ context.Context, p models.Payout) error {
	t.s.payouts[p.ID] = p
	return nil
}

// --- repo.Wallets ---

func (m *memStore) GetOrCreate(_ context.Context, candidateID string) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byCandidate[candidateID]; ok {
		return m.wallets[id], nil
	}
	w := models.Wallet{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.wallets[w.ID] = w
	m.byCandidate[candidateID] = w.ID
	return w, nil
}

func (m *memStore) GetByCandidate(_ context.Context, candidateID string) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byCandidate[candidateID]
	if !ok {
		return models.Wallet{}, repo.ErrWalletNotFound
	}
	return m.wallets[id], nil
}

// --- repo.Transactions ---

func (m *memStore) ListByWallet(_ context.Context, walletID string, limit int) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for i := len(m.txns) - 1; i >= 0 && len(out) < limit; i-- {
		if m.txns[i].WalletID == walletID {
			out = append(out, m.txns[i])
		}
	}
	return out, nil
}

// --- repo.Payouts ---

func (m *memStore) List(_ context.Context, status *models.PayoutStatus) ([]models.PayoutListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PayoutListing
	for i := len(m.payoutOrder) - 1; i >= 0; i-- {
		p := m.payouts[m.payoutOrder[i]]
		if status != nil && p.Status != *status {
			continue
		}
		w := m.wallets[p.WalletID]
		out = append(out, models.PayoutListing{Payout: p, CandidateID: w.CandidateID})
	}
	return out, nil
}

// --- repo.AuditLogs ---

func (m *memStore) Create(_ context.Context, l models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits = append(m.audits, l)
	return nil
}

// allTxns returns every ledger entry for a wallet in chronological order.
func (m *memStore) allTxns(walletID string) []models.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.txns {
		if t.WalletID == walletID {
			out = append(out, t)
		}
	}
	return out
}

func (m *memStore) wallet(candidateID string) models.Wallet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wallets[m.byCandidate[candidateID]]
}
