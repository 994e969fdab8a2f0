package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order; each runs once and is recorded in schema_version.
// INVARIANT: versions are strictly increasing and never edited after release
var migrations = []migration{
	{1, "users", `
	CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('manager', 'employee', 'parent')),
		email TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);`},
	{2, "children", `
	CREATE TABLE children (
		id TEXT PRIMARY KEY,
		child_name TEXT NOT NULL,
		parent_user_id TEXT REFERENCES users(id),
		created_at TEXT NOT NULL
	);
	CREATE INDEX idx_children_parent ON children(parent_user_id);`},
	{3, "techniques", `
	CREATE TABLE techniques (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		description TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_by_user_id TEXT REFERENCES users(id),
		created_at TEXT NOT NULL
	);`},
	{4, "child_skill_progress", `
	CREATE TABLE child_skill_progress (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL REFERENCES children(id),
		technique_id TEXT NOT NULL REFERENCES techniques(id),
		assigned_by_user_id TEXT NOT NULL REFERENCES users(id),
		completed INTEGER NOT NULL DEFAULT 0,
		assigned_at TEXT NOT NULL,
		completed_at TEXT,
		notes TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX idx_progress_child ON child_skill_progress(child_id);
	CREATE INDEX idx_progress_technique ON child_skill_progress(technique_id);`},
	{5, "shifts", `
	CREATE TABLE shifts (
		id TEXT PRIMARY KEY,
		employee_user_id TEXT NOT NULL REFERENCES users(id),
		shift_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		class_name TEXT NOT NULL,
		called_out INTEGER NOT NULL DEFAULT 0,
		call_out_note TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX idx_shifts_date ON shifts(shift_date, start_time);
	CREATE INDEX idx_shifts_employee ON shifts(employee_user_id);`},
	{6, "requests", `
	CREATE TABLE requests (
		id TEXT PRIMARY KEY,
		request_type TEXT NOT NULL CHECK (request_type IN ('switch', 'callout')),
		requester_user_id TEXT NOT NULL REFERENCES users(id),
		shift_id TEXT NOT NULL REFERENCES shifts(id),
		requested_employee_id TEXT REFERENCES users(id),
		reason TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
		created_at TEXT NOT NULL,
		decided_by_user_id TEXT REFERENCES users(id),
		decided_at TEXT
	);
	CREATE INDEX idx_requests_status ON requests(status, created_at);
	CREATE INDEX idx_requests_requester ON requests(requester_user_id);`},
	{7, "parent_notes", `
	CREATE TABLE parent_notes (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL REFERENCES children(id),
		author_user_id TEXT NOT NULL REFERENCES users(id),
		note_text TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX idx_parent_notes_child ON parent_notes(child_id, created_at);`},
	{8, "child_schedule", `
	CREATE TABLE child_schedule (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL REFERENCES children(id),
		class_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		class_title TEXT NOT NULL,
		instructor_name TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX idx_child_schedule_child ON child_schedule(child_id, class_date);`},
}

// LatestSchemaVersion is the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// Open opens the SQLite database at path. Pragmas go in the DSN so every
// pooled connection gets them, not just the first.
// PRE: path is a file path or ":memory:"
// POST: Returns an open *sql.DB with WAL, foreign keys and busy_timeout set
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// each connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// MigrateDB applies every pending migration.
// PRE: db is a valid database connection
// POST: schema_version == LatestSchemaVersion(); already-applied steps are skipped
func MigrateDB(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := RunInTx(ctx, db, func(q Querier) error {
			if _, err := q.ExecContext(ctx, m.sql); err != nil {
				return err
			}
			_, err := q.ExecContext(ctx, "INSERT INTO schema_version (version, name) VALUES (?, ?)", m.version, m.name)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("migration_event", "event", "migration_applied", "version", m.version, "name", m.name)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version, 0 when none.
func SchemaVersion(ctx context.Context, db Querier) (int, error) {
	var v int
	err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	return v, err
}
