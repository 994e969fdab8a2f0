package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dojo/internal/domain/account"
)

// UserStoreForSeed defines the store interface needed by SeedManager.
type UserStoreForSeed interface {
	CountByRole(ctx context.Context, role string) (int, error)
	Create(ctx context.Context, u account.User) error
}

// SeedManagerInput carries the configured manager credentials.
type SeedManagerInput struct {
	Username string
	Password string
}

// SeedManagerDeps holds dependencies for SeedManager.
type SeedManagerDeps struct {
	Users      UserStoreForSeed
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteSeedManager creates the manager account when no manager exists.
// Managers cannot self-register, so this is the only way one is created.
// PRE: Database is migrated
// POST: Exactly one manager exists if none did; otherwise no change
func ExecuteSeedManager(ctx context.Context, input SeedManagerInput, deps SeedManagerDeps) (bool, error) {
	count, err := deps.Users.CountByRole(ctx, account.RoleManager)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if input.Username == "" || input.Password == "" {
		return false, errors.New("manager credentials are not configured")
	}

	u := account.User{
		ID:        deps.GenerateID(),
		Username:  input.Username,
		Role:      account.RoleManager,
		CreatedAt: deps.Now(),
	}
	if err := u.Validate(); err != nil {
		return false, err
	}
	if err := u.SetPassword(input.Password); err != nil {
		return false, err
	}
	if err := deps.Users.Create(ctx, u); err != nil {
		return false, err
	}

	slog.Info("auth_event", "event", "manager_seeded", "username", u.Username)
	return true, nil
}
