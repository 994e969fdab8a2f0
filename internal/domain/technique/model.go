package technique

import (
	"strings"
	"time"

	"dojo/internal/domain/apperr"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength        = 120
	MaxDescriptionLength = 2000
)

// Domain errors
var (
	ErrEmptyName          = apperr.Validation("Technique name is required.")
	ErrNameTooLong        = apperr.Validation("Technique name cannot exceed 120 characters.")
	ErrDescriptionTooLong = apperr.Validation("Technique description cannot exceed 2000 characters.")
	ErrInactive           = apperr.Validation("Please choose a valid child and active technique.")
	ErrHasHistory         = apperr.Conflict("Technique has progress history; deactivate it instead.")
)

// Technique is a named skill that can be assigned to a child.
type Technique struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedBy   string // user ID, empty if the creator is unknown
	CreatedAt   time.Time
}

// Normalize trims user-entered fields in place.
func (t *Technique) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
}

// Validate checks if the Technique has valid data.
// PRE: Technique struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Technique) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// Assignable reports whether the technique may be newly assigned.
func (t *Technique) Assignable() bool {
	return t.Active
}
