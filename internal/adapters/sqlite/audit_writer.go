package sqlite

import (
	"context"

	"github.com/example/retrobot/internal/ctxutil"
	"github.com/example/retrobot/internal/ports/secondary"
)

// AuditWriterAdapter implements secondary.AuditLog using AuditRepository.
type AuditWriterAdapter struct {
	auditRepo secondary.AuditRepository
}

// NewAuditWriterAdapter creates a new AuditWriterAdapter.
func NewAuditWriterAdapter(auditRepo secondary.AuditRepository) *AuditWriterAdapter {
	return &AuditWriterAdapter{
		auditRepo: auditRepo,
	}
}

// Record logs one applied effect, attributed to the run and actor found in context.
func (w *AuditWriterAdapter) Record(ctx context.Context, effectType, operation, target, detail string) error {
	runID := ctxutil.RunIDFromContext(ctx)
	if runID == "" {
		// Effects applied outside a run share one bucket
		runID = "adhoc"
	}

	return w.auditRepo.Create(ctx, &secondary.AuditRecord{
		RunID:      runID,
		ActorID:    ctxutil.ActorFromContext(ctx),
		EffectType: effectType,
		Operation:  operation,
		Target:     target,
		Detail:     detail,
	})
}

// Ensure AuditWriterAdapter implements the interface
var _ secondary.AuditLog = (*AuditWriterAdapter)(nil)
