package childclass

import (
	"context"

	domain "dojo/internal/domain/childclass"
)

// Store persists children's scheduled classes.
type Store interface {
	Create(ctx context.Context, c domain.Class) error
	ListForChildren(ctx context.Context, filter ListFilter) ([]Listing, error)
}

// ListFilter selects classes for children within an inclusive date range.
type ListFilter struct {
	ChildIDs []string
	From     string
	To       string
}

// Listing is a class joined with the child's name.
type Listing struct {
	domain.Class
	ChildName string
}
