package technique

import (
	"context"
	"database/sql"

	"dojo/internal/adapters/storage"
	"dojo/internal/domain/apperr"
	domain "dojo/internal/domain/technique"
)

// Errors surfaced by the technique store.
var (
	ErrNotFound      = apperr.NotFound("Technique not found.")
	ErrDeleteBlocked = domain.ErrHasHistory
)

// User-facing messages for write failures.
const (
	MsgCouldNotAdd  = "Technique already exists or could not be added."
	MsgCouldNotSave = "Technique name already exists or could not be saved."
)

const techniqueColumns = "id, name, description, is_active, created_by_user_id, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new technique store over a connection or transaction.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Technique by its ID.
// PRE: id is non-empty
// POST: Returns the technique or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Technique, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+techniqueColumns+" FROM techniques WHERE id = ?", id)
	t, err := scanTechnique(row.Scan)
	if err != nil {
		return domain.Technique{}, storage.Translate(err, "Could not load technique.", ErrNotFound)
	}
	return t, nil
}

// Create inserts a new technique. Duplicate names surface as a Store error.
// PRE: t has been normalized and validated
// POST: Technique persisted
func (s *SQLiteStore) Create(ctx context.Context, t domain.Technique) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO techniques ("+techniqueColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		t.ID, t.Name, t.Description, t.Active, storage.NullString(t.CreatedBy), storage.FormatTime(t.CreatedAt),
	)
	if err != nil {
		return apperr.Store(MsgCouldNotAdd, err)
	}
	return nil
}

// Update overwrites name, description and active flag.
// PRE: t has been normalized and validated
// POST: Row updated, or ErrNotFound when the id does not exist
func (s *SQLiteStore) Update(ctx context.Context, t domain.Technique) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE techniques SET name = ?, description = ?, is_active = ? WHERE id = ?",
		t.Name, t.Description, t.Active, t.ID,
	)
	if err != nil {
		return apperr.Store(MsgCouldNotSave, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a technique. Referenced techniques are refused by the foreign key.
// PRE: id is non-empty
// POST: Row removed, ErrNotFound, or ErrDeleteBlocked
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM techniques WHERE id = ?", id)
	if storage.IsForeignKeyViolation(err) {
		return ErrDeleteBlocked
	}
	if err != nil {
		return storage.Translate(err, "Could not delete technique.", nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns techniques ordered by name.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Technique, error) {
	query := "SELECT " + techniqueColumns + " FROM techniques"
	if filter.ActiveOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storage.Translate(err, "Could not list techniques.", nil)
	}
	defer rows.Close()

	var list []domain.Technique
	for rows.Next() {
		t, err := scanTechnique(rows.Scan)
		if err != nil {
			return nil, storage.Translate(err, "Could not list techniques.", nil)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// CountProgress returns the number of progress records referencing the technique.
func (s *SQLiteStore) CountProgress(ctx context.Context, id string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM child_skill_progress WHERE technique_id = ?", id).Scan(&n)
	if err != nil {
		return 0, storage.Translate(err, "Could not check technique history.", nil)
	}
	return n, nil
}

// scanTechnique extracts a Technique from a row scanner function.
func scanTechnique(scan func(dest ...any) error) (domain.Technique, error) {
	var t domain.Technique
	var createdBy sql.NullString
	var createdAt string
	if err := scan(&t.ID, &t.Name, &t.Description, &t.Active, &createdBy, &createdAt); err != nil {
		return domain.Technique{}, err
	}
	t.CreatedBy = createdBy.String
	t.CreatedAt, _ = storage.ParseTime(createdAt)
	return t, nil
}
