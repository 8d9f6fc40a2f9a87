package secondary

import "context"

// AuditLog defines the interface for recording mutations applied to external systems.
// Implementations extract actor and run from context.
type AuditLog interface {
	// Record logs one applied effect.
	Record(ctx context.Context, effectType, operation, target, detail string) error
}

// AuditRepository defines the secondary port for audit trail persistence.
type AuditRepository interface {
	// Create persists a new audit entry.
	Create(ctx context.Context, record *AuditRecord) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters AuditFilters) ([]*AuditRecord, error)

	// PruneOlderThan deletes entries older than the given number of days.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// AuditRecord represents an audit entry as stored in persistence.
type AuditRecord struct {
	ID         int64
	RunID      string
	Timestamp  string
	ActorID    string // Empty string means null
	EffectType string // board, column, card, issue, notify
	Operation  string
	Target     string // board id, issue number, webhook host
	Detail     string // Empty string means null
}

// AuditFilters contains filter options for querying audit entries.
type AuditFilters struct {
	RunID      string
	EffectType string
	Limit      int
}
