package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"dojo/internal/domain/account"
	"dojo/internal/domain/apperr"
	"dojo/internal/domain/child"
)

// ErrParentNeedsChild is returned when a parent registers without naming a child.
var ErrParentNeedsChild = apperr.Validation("Parent registration requires a child name.")

// UserStoreForRegister defines the user store interface needed by Register.
type UserStoreForRegister interface {
	Create(ctx context.Context, u account.User) error
}

// ChildStoreForRegister defines the child store interface needed by Register.
type ChildStoreForRegister interface {
	Create(ctx context.Context, c child.Child) error
}

// RegisterStores are the stores bound to one registration transaction.
type RegisterStores struct {
	Users    UserStoreForRegister
	Children ChildStoreForRegister
}

// RegisterInput carries input for self-service registration.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Role            string
	Email           string
	ChildName       string // required for parents
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	InTx       func(ctx context.Context, fn func(RegisterStores) error) error
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteRegister creates an employee or parent account.
// PRE: none; all input is validated here
// POST: User created; for parents a child linked to the user is created in the same transaction
// INVARIANT: usernames are unique ignoring case
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (account.User, error) {
	username := strings.TrimSpace(input.Username)
	childName := strings.TrimSpace(input.ChildName)

	if len(username) < account.MinUsernameLength {
		return account.User{}, account.ErrUsernameTooShort
	}
	if len(input.Password) < account.MinPasswordLength {
		return account.User{}, account.ErrPasswordTooShort
	}
	if input.Password != input.ConfirmPassword {
		return account.User{}, account.ErrPasswordMismatch
	}
	if !account.IsSelfServiceRole(input.Role) {
		return account.User{}, account.ErrInvalidRole
	}
	if input.Role == account.RoleParent && childName == "" {
		return account.User{}, ErrParentNeedsChild
	}

	now := deps.Now()
	user := account.User{
		ID:        deps.GenerateID(),
		Username:  username,
		Role:      input.Role,
		Email:     strings.TrimSpace(input.Email),
		CreatedAt: now,
	}
	if err := user.Validate(); err != nil {
		return account.User{}, err
	}
	if err := user.SetPassword(input.Password); err != nil {
		return account.User{}, err
	}

	var kid child.Child
	if input.Role == account.RoleParent {
		kid = child.Child{ID: deps.GenerateID(), Name: childName, ParentUserID: user.ID, CreatedAt: now}
		if err := kid.Validate(); err != nil {
			return account.User{}, err
		}
	}

	err := deps.InTx(ctx, func(s RegisterStores) error {
		if err := s.Users.Create(ctx, user); err != nil {
			return err
		}
		if kid.ID != "" {
			return s.Children.Create(ctx, kid)
		}
		return nil
	})
	if err != nil {
		slog.Info("auth_event", "event", "register_failed", "username", username, "reason", apperr.KindOf(err).String())
		return account.User{}, err
	}

	slog.Info("auth_event", "event", "account_registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}
