package child

import (
	"context"

	domain "dojo/internal/domain/child"
)

// Store persists children.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Child, error)
	Create(ctx context.Context, c domain.Child) error
	List(ctx context.Context, filter ListFilter) ([]domain.Child, error)
}

// ListFilter narrows List. An empty ParentID lists every child.
type ListFilter struct {
	ParentID string
}
