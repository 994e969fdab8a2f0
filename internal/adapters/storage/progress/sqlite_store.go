package progress

import (
	"context"
	"database/sql"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/progress"
)

const recordColumns = "id, child_id, technique_id, assigned_by_user_id, completed, assigned_at, completed_at, notes"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new progress store over a connection or transaction.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Record by its ID.
// PRE: id is non-empty
// POST: Returns the record or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM child_skill_progress WHERE id = ?", id)
	r, err := scanRecord(row.Scan)
	if err != nil {
		return domain.Record{}, storage.Translate(err, "Could not load progress item.", domain.ErrNotFound)
	}
	return r, nil
}

// Create inserts a new record. Earlier records for the same pair are kept.
// PRE: r has been validated
// POST: Record persisted
func (s *SQLiteStore) Create(ctx context.Context, r domain.Record) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO child_skill_progress ("+recordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.ChildID, r.TechniqueID, r.AssignedBy, r.Completed,
		storage.FormatTime(r.AssignedAt), storage.NullTime(r.CompletedAt), r.Notes,
	)
	if err != nil {
		return storage.Translate(err, "Could not save progress.", nil)
	}
	return nil
}

// Update writes the completion state and notes of an existing record.
// PRE: r.ID exists
// POST: completed, completed_at and notes updated, or domain.ErrNotFound
func (s *SQLiteStore) Update(ctx context.Context, r domain.Record) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE child_skill_progress SET completed = ?, completed_at = ?, notes = ? WHERE id = ?",
		r.Completed, storage.NullTime(r.CompletedAt), r.Notes, r.ID,
	)
	if err != nil {
		return storage.Translate(err, "Could not update progress.", nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Totals counts records per child, including children with none, ordered by child name.
func (s *SQLiteStore) Totals(ctx context.Context, filter TotalsFilter) ([]ChildTotals, error) {
	query := `SELECT c.id, c.child_name, COUNT(p.id), COALESCE(SUM(p.completed), 0)
		FROM children c
		LEFT JOIN child_skill_progress p ON p.child_id = c.id`
	var args []any
	if filter.ParentID != "" {
		query += " WHERE c.parent_user_id = ?"
		args = append(args, filter.ParentID)
	}
	query += " GROUP BY c.id, c.child_name ORDER BY c.child_name, c.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Translate(err, "Could not summarize progress.", nil)
	}
	defer rows.Close()

	var out []ChildTotals
	for rows.Next() {
		var t ChildTotals
		if err := rows.Scan(&t.ChildID, &t.ChildName, &t.Total, &t.Completed); err != nil {
			return nil, storage.Translate(err, "Could not summarize progress.", nil)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListDetails returns records for the given children, newest assignment first.
// PRE: len(childIDs) > 0
func (s *SQLiteStore) ListDetails(ctx context.Context, childIDs []string) ([]Detail, error) {
	in, args := storage.InClause(childIDs)
	query := `SELECT p.id, p.child_id, p.technique_id, p.assigned_by_user_id, p.completed,
			p.assigned_at, p.completed_at, p.notes, t.name, COALESCE(u.username, '')
		FROM child_skill_progress p
		JOIN techniques t ON t.id = p.technique_id
		LEFT JOIN users u ON u.id = p.assigned_by_user_id
		WHERE p.child_id IN (` + in + `)
		ORDER BY p.assigned_at DESC, p.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Translate(err, "Could not load progress.", nil)
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		var d Detail
		var assignedAt string
		var completedAt sql.NullString
		err := rows.Scan(&d.ID, &d.ChildID, &d.TechniqueID, &d.AssignedBy, &d.Completed,
			&assignedAt, &completedAt, &d.Notes, &d.TechniqueName, &d.AssignedByUsername)
		if err != nil {
			return nil, storage.Translate(err, "Could not load progress.", nil)
		}
		d.AssignedAt, _ = storage.ParseTime(assignedAt)
		d.CompletedAt = storage.ParseNullTime(completedAt)
		out = append(out, d)
	}
	return out, rows.Err()
}

// scanRecord extracts a Record from a row scanner function.
func scanRecord(scan func(dest ...any) error) (domain.Record, error) {
	var r domain.Record
	var assignedAt string
	var completedAt sql.NullString
	if err := scan(&r.ID, &r.ChildID, &r.TechniqueID, &r.AssignedBy, &r.Completed, &assignedAt, &completedAt, &r.Notes); err != nil {
		return domain.Record{}, err
	}
	r.AssignedAt, _ = storage.ParseTime(assignedAt)
	r.CompletedAt = storage.ParseNullTime(completedAt)
	return r, nil
}
