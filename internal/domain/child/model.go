package child

import (
	"strings"
	"time"

	"dojo/internal/domain/apperr"
)

// MaxNameLength caps child names.
const MaxNameLength = 120

// Domain errors
var (
	ErrEmptyName   = apperr.Validation("Child name is required.")
	ErrNameTooLong = apperr.Validation("Child name cannot exceed 120 characters.")
)

// Child is a student at the academy. ParentUserID is empty for children
// added by staff without a linked parent account.
type Child struct {
	ID           string
	Name         string
	ParentUserID string
	CreatedAt    time.Time
}

// Validate checks if the Child has valid data.
// PRE: Child struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Child) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// BelongsTo reports whether parentID owns this child.
func (c *Child) BelongsTo(parentID string) bool {
	return parentID != "" && c.ParentUserID == parentID
}
