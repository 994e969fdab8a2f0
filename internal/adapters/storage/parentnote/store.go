package parentnote

import (
	"context"

	domain "dojo/internal/domain/parentnote"
)

// Store persists parent notes. Notes are never updated or deleted.
type Store interface {
	Create(ctx context.Context, n domain.Note) error
	ListForChildren(ctx context.Context, childIDs []string) ([]Listing, error)
}

// Listing is a note joined with its author's username.
type Listing struct {
	domain.Note
	AuthorUsername string
}
