package child

import (
	"context"
	"database/sql"
	"strings"

	"dojo/internal/adapters/storage"
	"dojo/internal/domain/apperr"
	domain "dojo/internal/domain/child"
)

// ErrNotFound is returned when a child id does not exist.
var ErrNotFound = apperr.NotFound("Child not found.")

const childColumns = "id, child_name, parent_user_id, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new child store over a connection or transaction.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Child by its ID.
// PRE: id is non-empty
// POST: Returns the child or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Child, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+childColumns+" FROM children WHERE id = ?", id)
	c, err := scanChild(row.Scan)
	if err != nil {
		return domain.Child{}, storage.Translate(err, "Could not load child.", ErrNotFound)
	}
	return c, nil
}

// Create inserts a new child.
// PRE: c has been validated
// POST: Child persisted; a missing parent surfaces as a Conflict
func (s *SQLiteStore) Create(ctx context.Context, c domain.Child) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO children ("+childColumns+") VALUES (?, ?, ?, ?)",
		c.ID, strings.TrimSpace(c.Name), storage.NullString(c.ParentUserID), storage.FormatTime(c.CreatedAt),
	)
	if err != nil {
		return storage.Translate(err, "Could not add child.", nil)
	}
	return nil
}

// List returns children ordered by name.
// PRE: none
// POST: Only ParentID's children when set
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Child, error) {
	query := "SELECT " + childColumns + " FROM children"
	var args []any
	if filter.ParentID != "" {
		query += " WHERE parent_user_id = ?"
		args = append(args, filter.ParentID)
	}
	query += " ORDER BY child_name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Translate(err, "Could not list children.", nil)
	}
	defer rows.Close()

	var children []domain.Child
	for rows.Next() {
		c, err := scanChild(rows.Scan)
		if err != nil {
			return nil, storage.Translate(err, "Could not list children.", nil)
		}
		children = append(children, c)
	}
	return children, rows.Err()
}

// scanChild extracts a Child from a row scanner function.
func scanChild(scan func(dest ...any) error) (domain.Child, error) {
	var c domain.Child
	var parent sql.NullString
	var createdAt string
	if err := scan(&c.ID, &c.Name, &parent, &createdAt); err != nil {
		return domain.Child{}, err
	}
	c.ParentUserID = parent.String
	c.CreatedAt, _ = storage.ParseTime(createdAt)
	return c, nil
}
