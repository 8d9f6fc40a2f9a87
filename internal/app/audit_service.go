package app

import (
	"context"
	"fmt"

	"github.com/example/retrobot/internal/ports/primary"
	"github.com/example/retrobot/internal/ports/secondary"
)

// AuditServiceImpl implements the AuditService interface.
type AuditServiceImpl struct {
	auditRepo secondary.AuditRepository
}

// NewAuditService creates a new AuditService with injected dependencies.
func NewAuditService(auditRepo secondary.AuditRepository) *AuditServiceImpl {
	return &AuditServiceImpl{
		auditRepo: auditRepo,
	}
}

// ListEntries retrieves audit entries matching the given filters.
func (s *AuditServiceImpl) ListEntries(ctx context.Context, filters primary.AuditFilters) ([]*primary.AuditEntry, error) {
	records, err := s.auditRepo.List(ctx, secondary.AuditFilters{
		RunID:      filters.RunID,
		EffectType: filters.EffectType,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*primary.AuditEntry, len(records))
	for i, r := range records {
		entries[i] = recordToAuditEntry(r)
	}
	return entries, nil
}

// PruneEntries deletes entries older than the specified number of days.
func (s *AuditServiceImpl) PruneEntries(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 0 {
		return 0, fmt.Errorf("days cannot be negative, got %d", olderThanDays)
	}
	return s.auditRepo.PruneOlderThan(ctx, olderThanDays)
}

func recordToAuditEntry(r *secondary.AuditRecord) *primary.AuditEntry {
	return &primary.AuditEntry{
		ID:         r.ID,
		RunID:      r.RunID,
		Timestamp:  r.Timestamp,
		ActorID:    r.ActorID,
		EffectType: r.EffectType,
		Operation:  r.Operation,
		Target:     r.Target,
		Detail:     r.Detail,
	}
}

// Ensure AuditServiceImpl implements the interface
var _ primary.AuditService = (*AuditServiceImpl)(nil)
