package account

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dojo/internal/domain/apperr"
)

// Field limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 6
	MaxEmailLength    = 254
)

// Role constants
const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
	RoleParent   = "parent"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleManager, RoleEmployee, RoleParent}

// SelfServiceRoles are the roles a visitor may pick at registration.
var SelfServiceRoles = []string{RoleEmployee, RoleParent}

// Domain errors
var (
	ErrUsernameTooShort = apperr.Validation("Username must be at least 3 characters.")
	ErrUsernameTooLong  = apperr.Validation("Username cannot exceed 64 characters.")
	ErrPasswordTooShort = apperr.Validation("Password must be at least 6 characters.")
	ErrPasswordMismatch = apperr.Validation("Passwords do not match.")
	ErrInvalidRole      = apperr.Validation("Invalid role selected.")
	ErrInvalidEmail     = apperr.Validation("Email must contain '@'.")
	ErrWrongPassword    = apperr.Validation("Invalid username or password.")
)

// User is an account holder. Role is fixed at creation.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	Email        string // optional, used for request decision emails
	CreatedAt    time.Time
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	name := strings.TrimSpace(u.Username)
	if len(name) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(name) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if !IsValidRole(u.Role) {
		return ErrInvalidRole
	}
	if u.Email != "" {
		if len(u.Email) > MaxEmailLength || !strings.Contains(u.Email, "@") {
			return ErrInvalidEmail
		}
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext has at least MinPasswordLength characters
// POST: PasswordHash is set to a bcrypt hash
func (u *User) SetPassword(plaintext string) error {
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), BcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: User fields are not mutated
func (u *User) CheckPassword(plaintext string) error {
	if u.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsManager returns true for manager accounts.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// IsStaff returns true for managers and employees.
func (u *User) IsStaff() bool {
	return u.Role == RoleManager || u.Role == RoleEmployee
}

// IsValidRole reports whether role is one of ValidRoles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsSelfServiceRole reports whether role may be chosen at registration.
func IsSelfServiceRole(role string) bool {
	for _, r := range SelfServiceRoles {
		if r == role {
			return true
		}
	}
	return false
}
