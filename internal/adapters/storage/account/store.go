package account

import (
	"context"

	domain "dojo/internal/domain/account"
)

// Store persists users.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Create(ctx context.Context, user domain.User) error
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}
