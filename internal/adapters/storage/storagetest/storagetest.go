// Package storagetest opens migrated in-memory databases and seeds rows for store tests.
package storagetest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"dojo/internal/adapters/storage"
)

// Created is the fixed created_at used by seeded rows.
const Created = "2026-10-01T09:00:00Z"

// Open returns a migrated single-connection in-memory database closed at test end.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func exec(t testing.TB, db storage.Querier, query string, args ...any) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("seed %q: %v", query, err)
	}
}

// stamp rewrites an RFC 3339 literal in the on-disk timestamp layout.
func stamp(t testing.TB, value string) string {
	t.Helper()
	at, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		t.Fatalf("seed timestamp %q: %v", value, err)
	}
	return storage.FormatTime(at)
}

// User inserts a user row with a placeholder password hash.
func User(t testing.TB, db storage.Querier, id, username, role string) {
	t.Helper()
	exec(t, db, "INSERT INTO users (id, username, password_hash, role, email, created_at) VALUES (?, ?, 'x', ?, '', ?)", id, username, role, stamp(t, Created))
}

// Child inserts a child row; parentID may be empty.
func Child(t testing.TB, db storage.Querier, id, name, parentID string) {
	t.Helper()
	exec(t, db, "INSERT INTO children (id, child_name, parent_user_id, created_at) VALUES (?, ?, ?, ?)", id, name, storage.NullString(parentID), stamp(t, Created))
}

// Technique inserts a technique row.
func Technique(t testing.TB, db storage.Querier, id, name string, active bool) {
	t.Helper()
	exec(t, db, "INSERT INTO techniques (id, name, description, is_active, created_at) VALUES (?, ?, '', ?, ?)", id, name, active, stamp(t, Created))
}

// Progress inserts a progress row assigned at assignedAt.
func Progress(t testing.TB, db storage.Querier, id, childID, techniqueID, assignedBy string, completed bool, assignedAt string) {
	t.Helper()
	assignedAt = stamp(t, assignedAt)
	var completedAt any
	if completed {
		completedAt = assignedAt
	}
	exec(t, db, "INSERT INTO child_skill_progress (id, child_id, technique_id, assigned_by_user_id, completed, assigned_at, completed_at, notes) VALUES (?, ?, ?, ?, ?, ?, ?, '')",
		id, childID, techniqueID, assignedBy, completed, assignedAt, completedAt)
}

// Shift inserts a shift row.
func Shift(t testing.TB, db storage.Querier, id, employeeID, date, className string) {
	t.Helper()
	exec(t, db, "INSERT INTO shifts (id, employee_user_id, shift_date, start_time, end_time, class_name) VALUES (?, ?, ?, '17:00', '18:00', ?)", id, employeeID, date, className)
}

// Request inserts a pending request row; targetID may be empty.
func Request(t testing.TB, db storage.Querier, id, requestType, requesterID, shiftID, targetID, reason, createdAt string) {
	t.Helper()
	exec(t, db, "INSERT INTO requests (id, request_type, requester_user_id, shift_id, requested_employee_id, reason, status, created_at) VALUES (?, ?, ?, ?, ?, ?, 'pending', ?)",
		id, requestType, requesterID, shiftID, storage.NullString(targetID), reason, stamp(t, createdAt))
}
