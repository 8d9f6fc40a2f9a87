// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/retrobot/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each pooled connection to :memory: is a separate database
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedAuditEntry inserts an entry with an explicit timestamp.
func seedAuditEntry(t *testing.T, db *sql.DB, runID, effectType, timestamp string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO audit_log (run_id, timestamp, effect_type, operation, target) VALUES (?, ?, ?, 'create', '1')",
		runID, timestamp, effectType,
	)
	if err != nil {
		t.Fatalf("failed to seed audit entry: %v", err)
	}
}
