package parentnote

import (
	"strings"
	"time"

	"dojo/internal/domain/apperr"
)

// MaxTextLength caps a single note.
const MaxTextLength = 4000

// Domain errors
var (
	ErrEmptyChildID = apperr.Validation("Please choose a child.")
	ErrEmptyAuthor  = apperr.Validation("Note author is required.")
	ErrEmptyText    = apperr.Validation("Note text is required.")
	ErrTextTooLong  = apperr.Validation("Note cannot exceed 4000 characters.")
)

// Note is a staff message to a child's parent. Notes are append-only.
// Text is markdown and is rendered at display time.
type Note struct {
	ID        string
	ChildID   string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

// Validate checks if the Note has valid data.
// PRE: Note struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Note) Validate() error {
	if n.ChildID == "" {
		return ErrEmptyChildID
	}
	if n.AuthorID == "" {
		return ErrEmptyAuthor
	}
	text := strings.TrimSpace(n.Text)
	if text == "" {
		return ErrEmptyText
	}
	if len(text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}
