package parentnote

import (
	"context"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/parentnote"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new note store over a connection or transaction.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create appends a note.
// PRE: n has been validated
// POST: Note persisted; an unknown child surfaces as a Conflict
func (s *SQLiteStore) Create(ctx context.Context, n domain.Note) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO parent_notes (id, child_id, author_user_id, note_text, created_at) VALUES (?, ?, ?, ?, ?)",
		n.ID, n.ChildID, n.AuthorID, n.Text, storage.FormatTime(n.CreatedAt),
	)
	if err != nil {
		return storage.Translate(err, "Could not save note.", nil)
	}
	return nil
}

// ListForChildren returns notes for the given children, newest first.
// PRE: len(childIDs) > 0
func (s *SQLiteStore) ListForChildren(ctx context.Context, childIDs []string) ([]Listing, error) {
	in, args := storage.InClause(childIDs)
	rows, err := s.db.QueryContext(ctx, `SELECT n.id, n.child_id, n.author_user_id, n.note_text, n.created_at, COALESCE(u.username, '')
		FROM parent_notes n LEFT JOIN users u ON u.id = n.author_user_id
		WHERE n.child_id IN (`+in+`)
		ORDER BY n.created_at DESC, n.id DESC`, args...)
	if err != nil {
		return nil, storage.Translate(err, "Could not load notes.", nil)
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		var createdAt string
		if err := rows.Scan(&l.ID, &l.ChildID, &l.AuthorID, &l.Text, &createdAt, &l.AuthorUsername); err != nil {
			return nil, storage.Translate(err, "Could not load notes.", nil)
		}
		l.CreatedAt, _ = storage.ParseTime(createdAt)
		out = append(out, l)
	}
	return out, rows.Err()
}
