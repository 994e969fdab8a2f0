package shift

import (
	"context"
	"strings"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/shift"
)

const shiftColumns = "id, employee_user_id, shift_date, start_time, end_time, class_name, called_out, call_out_note"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new shift store over a connection or transaction.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Shift by its ID.
// PRE: id is non-empty
// POST: Returns the shift or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Shift, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+shiftColumns+" FROM shifts WHERE id = ?", id)
	var sh domain.Shift
	err := row.Scan(&sh.ID, &sh.EmployeeID, &sh.Date, &sh.StartTime, &sh.EndTime, &sh.ClassName, &sh.CalledOut, &sh.CallOutNote)
	if err != nil {
		return domain.Shift{}, storage.Translate(err, "Could not load shift.", domain.ErrNotFound)
	}
	return sh, nil
}

// Create inserts a new shift.
// PRE: sh has been validated
// POST: Shift persisted
func (s *SQLiteStore) Create(ctx context.Context, sh domain.Shift) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO shifts ("+shiftColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		sh.ID, sh.EmployeeID, sh.Date, sh.StartTime, sh.EndTime, strings.TrimSpace(sh.ClassName), sh.CalledOut, sh.CallOutNote,
	)
	if err != nil {
		return storage.Translate(err, "Could not save shift.", nil)
	}
	return nil
}

// Update overwrites every mutable column of an existing shift.
// PRE: sh has been validated
// POST: Row updated, or domain.ErrNotFound
func (s *SQLiteStore) Update(ctx context.Context, sh domain.Shift) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE shifts SET employee_user_id = ?, shift_date = ?, start_time = ?, end_time = ?,
			class_name = ?, called_out = ?, call_out_note = ? WHERE id = ?`,
		sh.EmployeeID, sh.Date, sh.StartTime, sh.EndTime, strings.TrimSpace(sh.ClassName), sh.CalledOut, sh.CallOutNote, sh.ID,
	)
	if err != nil {
		return storage.Translate(err, "Could not update shift.", nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns shifts ordered by date then start time.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]Listing, error) {
	var b strings.Builder
	b.WriteString(`SELECT s.id, s.employee_user_id, s.shift_date, s.start_time, s.end_time,
			s.class_name, s.called_out, s.call_out_note, u.username
		FROM shifts s JOIN users u ON u.id = s.employee_user_id WHERE 1 = 1`)
	var args []any
	if filter.EmployeeID != "" {
		b.WriteString(" AND s.employee_user_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if filter.From != "" {
		b.WriteString(" AND s.shift_date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		b.WriteString(" AND s.shift_date <= ?")
		args = append(args, filter.To)
	}
	b.WriteString(" ORDER BY s.shift_date, s.start_time, s.id")

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, storage.Translate(err, "Could not list shifts.", nil)
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		err := rows.Scan(&l.ID, &l.EmployeeID, &l.Date, &l.StartTime, &l.EndTime,
			&l.ClassName, &l.CalledOut, &l.CallOutNote, &l.EmployeeUsername)
		if err != nil {
			return nil, storage.Translate(err, "Could not list shifts.", nil)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
