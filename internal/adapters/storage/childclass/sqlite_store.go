package childclass

import (
	"context"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/childclass"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new class store over a connection or transaction.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts a class for a child.
// PRE: c has been validated
// POST: Class persisted
func (s *SQLiteStore) Create(ctx context.Context, c domain.Class) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO child_schedule (id, child_id, class_date, start_time, end_time, class_title, instructor_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ChildID, c.Date, c.StartTime, c.EndTime, c.Title, c.InstructorName,
	)
	if err != nil {
		return storage.Translate(err, "Could not save class.", nil)
	}
	return nil
}

// ListForChildren returns classes ordered by date and start time.
// PRE: len(filter.ChildIDs) > 0
func (s *SQLiteStore) ListForChildren(ctx context.Context, filter ListFilter) ([]Listing, error) {
	in, args := storage.InClause(filter.ChildIDs)
	query := `SELECT cs.id, cs.child_id, cs.class_date, cs.start_time, cs.end_time, cs.class_title, cs.instructor_name, c.child_name
		FROM child_schedule cs JOIN children c ON c.id = cs.child_id
		WHERE cs.child_id IN (` + in + `)`
	if filter.From != "" {
		query += " AND cs.class_date >= ?"
		args = append(args, filter.From)
	}
	if filter.To != "" {
		query += " AND cs.class_date <= ?"
		args = append(args, filter.To)
	}
	query += " ORDER BY cs.class_date, cs.start_time, c.child_name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Translate(err, "Could not load classes.", nil)
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		if err := rows.Scan(&l.ID, &l.ChildID, &l.Date, &l.StartTime, &l.EndTime, &l.Title, &l.InstructorName, &l.ChildName); err != nil {
			return nil, storage.Translate(err, "Could not load classes.", nil)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
