package technique

import (
	"context"

	domain "dojo/internal/domain/technique"
)

// Store persists techniques.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Technique, error)
	Create(ctx context.Context, t domain.Technique) error
	Update(ctx context.Context, t domain.Technique) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Technique, error)
	CountProgress(ctx context.Context, id string) (int, error)
}

// ListFilter narrows List.
type ListFilter struct {
	ActiveOnly bool
}
