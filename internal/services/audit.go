package services

import (
	"context"
	"log/slog"

	"github.com/gigpay/wallet-service/internal/models"
	repo "github.com/gigpay/wallet-service/internal/repository"
	"github.com/gigpay/wallet-service/internal/worker"
)

// auditor writes audit rows through the worker pool so ledger commits never
// wait on the audit table. Entries may land slightly after the commit they
// describe; the ledger itself is the authoritative record.
type auditor struct {
	log repo.AuditLogs
	wp  *worker.Pool
}

func (a *auditor) record(entityType, entityID, action string, details map[string]any) {
	if a == nil || a.log == nil {
		return
	}
	l := models.AuditLog{
		EntityType: entityType,
		EntityID:   &entityID,
		Action:     action,
		Details:    details,
	}
	write := func() {
		if err := a.log.Create(context.Background(), l); err != nil {
			slog.Warn("audit write failed", "entity", entityType, "id", entityID, "err", err)
		}
	}
	if a.wp != nil {
		a.wp.Submit(write)
		return
	}
	write()
}
