package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"dojo/internal/domain/access"
	"dojo/internal/domain/account"
	"dojo/internal/domain/apperr"
)

// UserStoreForLogin defines the store interface needed by Login.
type UserStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (account.User, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Users UserStoreForLogin
}

// ExecuteLogin validates credentials and returns the identity for session creation.
// PRE: none
// POST: Returns the identity on success; an unknown user or bad password returns account.ErrWrongPassword
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (access.Identity, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return access.Identity{}, account.ErrWrongPassword
	}

	user, err := deps.Users.GetByUsername(ctx, username)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			return access.Identity{}, err
		}
		slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "lookup")
		return access.Identity{}, account.ErrWrongPassword
	}
	if err := user.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "password")
		return access.Identity{}, account.ErrWrongPassword
	}

	slog.Info("auth_event", "event", "login_success", "user_id", user.ID, "role", user.Role)
	return access.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}
