package request

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/request"
)

const requestColumns = "id, request_type, requester_user_id, shift_id, requested_employee_id, reason, status, created_at, decided_by_user_id, decided_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new request store over a connection or transaction.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Request by its ID.
// PRE: id is non-empty
// POST: Returns the request or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Request, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+requestColumns+" FROM requests WHERE id = ?", id)
	r, err := scanRequest(row.Scan)
	if err != nil {
		return domain.Request{}, storage.Translate(err, "Could not load request.", domain.ErrNotFound)
	}
	return r, nil
}

// Create inserts a new request.
// PRE: r has been validated
// POST: Request persisted with its status
func (s *SQLiteStore) Create(ctx context.Context, r domain.Request) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO requests ("+requestColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.Type, r.RequesterID, r.ShiftID, storage.NullString(r.RequestedEmployeeID), r.Reason, r.Status,
		storage.FormatTime(r.CreatedAt), storage.NullString(r.DecidedBy), storage.NullTime(r.DecidedAt),
	)
	if err != nil {
		return storage.Translate(err, "Could not save request.", nil)
	}
	return nil
}

// Decide moves a pending request to status.
// The write only applies while the row is still pending, so two concurrent
// decisions cannot both succeed.
// PRE: status is approved or rejected
// POST: Row decided, or domain.ErrAlreadyProcessed / domain.ErrNotFound with no write
func (s *SQLiteStore) Decide(ctx context.Context, id, status, decidedBy string, decidedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE requests SET status = ?, decided_by_user_id = ?, decided_at = ? WHERE id = ? AND status = ?",
		status, storage.NullString(decidedBy), storage.FormatTime(decidedAt), id, domain.StatusPending,
	)
	if err != nil {
		return storage.Translate(err, "Could not update request.", nil)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storage.Translate(err, "Could not update request.", nil)
	}
	if n == 1 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM requests WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return storage.Translate(err, "Could not update request.", domain.ErrNotFound)
	}
	return domain.ErrAlreadyProcessed
}

// List returns requests joined with usernames and shift details.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]Listing, error) {
	var b strings.Builder
	b.WriteString(`SELECT r.id, r.request_type, r.requester_user_id, r.shift_id, r.requested_employee_id,
			r.reason, r.status, r.created_at, r.decided_by_user_id, r.decided_at,
			req.username, COALESCE(tgt.username, ''), s.shift_date, s.start_time, s.end_time, s.class_name
		FROM requests r
		JOIN users req ON req.id = r.requester_user_id
		JOIN shifts s ON s.id = r.shift_id
		LEFT JOIN users tgt ON tgt.id = r.requested_employee_id
		WHERE 1 = 1`)
	var args []any
	if filter.Status != "" {
		b.WriteString(" AND r.status = ?")
		args = append(args, filter.Status)
	}
	if filter.RequesterID != "" {
		b.WriteString(" AND r.requester_user_id = ?")
		args = append(args, filter.RequesterID)
	}
	if filter.Status == domain.StatusPending {
		b.WriteString(" ORDER BY r.created_at ASC, r.id ASC")
	} else {
		b.WriteString(" ORDER BY r.created_at DESC, r.id DESC")
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, storage.Translate(err, "Could not list requests.", nil)
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		var extra = []any{&l.RequesterUsername, &l.TargetUsername, &l.ShiftDate, &l.ShiftStart, &l.ShiftEnd, &l.ClassName}
		r, err := scanRequest(func(dest ...any) error {
			return rows.Scan(append(dest, extra...)...)
		})
		if err != nil {
			return nil, storage.Translate(err, "Could not list requests.", nil)
		}
		l.Request = r
		out = append(out, l)
	}
	return out, rows.Err()
}

// scanRequest extracts a Request from a row scanner function.
func scanRequest(scan func(dest ...any) error) (domain.Request, error) {
	var r domain.Request
	var target, decidedBy, decidedAt sql.NullString
	var createdAt string
	err := scan(&r.ID, &r.Type, &r.RequesterID, &r.ShiftID, &target, &r.Reason, &r.Status, &createdAt, &decidedBy, &decidedAt)
	if err != nil {
		return domain.Request{}, err
	}
	r.RequestedEmployeeID = target.String
	r.DecidedBy = decidedBy.String
	r.CreatedAt, _ = storage.ParseTime(createdAt)
	r.DecidedAt = storage.ParseNullTime(decidedAt)
	return r, nil
}
