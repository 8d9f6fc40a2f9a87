package primary

import "context"

// AuditService defines the primary port for the local audit trail of applied mutations.
type AuditService interface {
	// ListEntries retrieves audit entries matching the given filters, newest first.
	ListEntries(ctx context.Context, filters AuditFilters) ([]*AuditEntry, error)

	// PruneEntries deletes entries older than the specified number of days.
	PruneEntries(ctx context.Context, olderThanDays int) (int, error)
}

// AuditEntry represents an audit entry at the port boundary.
type AuditEntry struct {
	ID         int64
	RunID      string
	Timestamp  string
	ActorID    string
	EffectType string
	Operation  string
	Target     string
	Detail     string
}

// AuditFilters contains filter options for querying audit entries.
type AuditFilters struct {
	RunID      string
	EffectType string
	Limit      int
}
