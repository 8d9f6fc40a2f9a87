// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/retrobot/internal/ports/secondary"
)

// AuditRepository implements secondary.AuditRepository with SQLite.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new SQLite audit repository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create persists a new audit entry and sets its ID.
func (r *AuditRepository) Create(ctx context.Context, record *secondary.AuditRecord) error {
	var actorID, detail sql.NullString
	if record.ActorID != "" {
		actorID = sql.NullString{String: record.ActorID, Valid: true}
	}
	if record.Detail != "" {
		detail = sql.NullString{String: record.Detail, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (run_id, actor_id, effect_type, operation, target, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		record.RunID,
		actorID,
		record.EffectType,
		record.Operation,
		record.Target,
		detail,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read audit entry id: %w", err)
	}
	record.ID = id
	return nil
}

// List retrieves audit entries matching the given filters, newest first.
func (r *AuditRepository) List(ctx context.Context, filters secondary.AuditFilters) ([]*secondary.AuditRecord, error) {
	query := `SELECT id, run_id, timestamp, actor_id, effect_type, operation, target, detail FROM audit_log WHERE 1=1`
	args := []any{}

	if filters.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, filters.RunID)
	}

	if filters.EffectType != "" {
		query += " AND effect_type = ?"
		args = append(args, filters.EffectType)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var records []*secondary.AuditRecord
	for rows.Next() {
		var (
			actorID   sql.NullString
			detail    sql.NullString
			timestamp time.Time
		)

		record := &secondary.AuditRecord{}
		err := rows.Scan(&record.ID,
			&record.RunID,
			&timestamp,
			&actorID,
			&record.EffectType,
			&record.Operation,
			&record.Target,
			&detail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		record.Timestamp = timestamp.Format(time.RFC3339)
		record.ActorID = actorID.String
		record.Detail = detail.String

		records = append(records, record)
	}

	return records, rows.Err()
}

// PruneOlderThan deletes entries older than the given number of days.
func (r *AuditRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM audit_log WHERE timestamp < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit entries: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

// Ensure AuditRepository implements the interface
var _ secondary.AuditRepository = (*AuditRepository)(nil)
