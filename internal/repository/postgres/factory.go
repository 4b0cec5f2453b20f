package postgres

import (
	repo "github.com/gigpay/wallet-service/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users        repo.Users
	Candidates   repo.Candidates
	Wallets      repo.Wallets
	Transactions repo.Transactions
	Payouts      repo.Payouts
	Ledger       repo.Ledger
	AuditLogs    repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:        &usersRepo{pool},
		Candidates:   &candidatesRepo{pool},
		Wallets:      &walletsRepo{pool},
		Transactions: &transactionsRepo{pool},
		Payouts:      &payoutsRepo{pool},
		Ledger:       &ledgerRepo{pool},
		AuditLogs:    &auditLogsRepo{pool},
	}
}
