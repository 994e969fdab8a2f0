package account

import (
	"context"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/account"
	"dojo/internal/domain/apperr"
)

// Errors surfaced by the user store.
var (
	ErrNotFound          = apperr.NotFound("User not found.")
	ErrDuplicateUsername = apperr.Conflict("Username already exists. Choose a different username.")
)

const userColumns = "id, username, password_hash, role, email, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new user store over a connection or transaction.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a User by its ID.
// PRE: id is non-empty
// POST: Returns the user or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row.Scan)
	if err != nil {
		return domain.User{}, storage.Translate(err, "Could not load user.", ErrNotFound)
	}
	return u, nil
}

// GetByUsername retrieves a User by username, ignoring case.
// PRE: username is non-empty
// POST: Returns the user or ErrNotFound
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	u, err := scanUser(row.Scan)
	if err != nil {
		return domain.User{}, storage.Translate(err, "Could not load user.", ErrNotFound)
	}
	return u, nil
}

// Create inserts a new user.
// PRE: user has been validated and carries a password hash
// POST: User persisted, or ErrDuplicateUsername
func (s *SQLiteStore) Create(ctx context.Context, u domain.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		u.ID, u.Username, u.PasswordHash, u.Role, u.Email, storage.FormatTime(u.CreatedAt),
	)
	if storage.IsUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return storage.Translate(err, "Could not create user.", nil)
	}
	return nil
}

// ListByRole returns users with role, ordered by username.
func (s *SQLiteStore) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users WHERE role = ? ORDER BY username", role)
	if err != nil {
		return nil, storage.Translate(err, "Could not list users.", nil)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, storage.Translate(err, "Could not list users.", nil)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountByRole returns the number of users with role.
func (s *SQLiteStore) CountByRole(ctx context.Context, role string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role = ?", role).Scan(&n)
	if err != nil {
		return 0, storage.Translate(err, "Could not count users.", nil)
	}
	return n, nil
}

// scanUser extracts a User from a row scanner function.
func scanUser(scan func(dest ...any) error) (domain.User, error) {
	var u domain.User
	var createdAt string
	if err := scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Email, &createdAt); err != nil {
		return domain.User{}, err
	}
	u.CreatedAt, _ = storage.ParseTime(createdAt)
	return u, nil
}
