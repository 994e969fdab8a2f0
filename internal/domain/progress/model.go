package progress

import (
	"math"
	"time"

	"dojo/internal/domain/apperr"
)

// MaxNotesLength caps free-text notes on a progress record.
const MaxNotesLength = 1000

// Domain errors
var (
	ErrEmptyChildID     = apperr.Validation("Please choose a valid child and active technique.")
	ErrEmptyTechniqueID = apperr.Validation("Please choose a valid child and active technique.")
	ErrEmptyAssignedBy  = apperr.Validation("Assigning staff member is required.")
	ErrNotesTooLong     = apperr.Validation("Notes cannot exceed 1000 characters.")
	ErrNotFound         = apperr.NotFound("Progress item not found.")
)

// Record is one assignment of a technique to a child. Several records may
// exist for the same child and technique; they form a history.
// INVARIANT: CompletedAt is non-zero iff Completed
type Record struct {
	ID          string
	ChildID     string
	TechniqueID string
	AssignedBy  string
	Completed   bool
	AssignedAt  time.Time
	CompletedAt time.Time
	Notes       string
}

// Validate checks if the Record has valid data.
// PRE: Record struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Record) Validate() error {
	if r.ChildID == "" {
		return ErrEmptyChildID
	}
	if r.TechniqueID == "" {
		return ErrEmptyTechniqueID
	}
	if r.AssignedBy == "" {
		return ErrEmptyAssignedBy
	}
	if len(r.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// SetCompleted sets the completion state, keeping CompletedAt consistent.
// PRE: now is non-zero
// POST: CompletedAt == now when completed, zero otherwise
func (r *Record) SetCompleted(completed bool, now time.Time) {
	r.Completed = completed
	if completed {
		r.CompletedAt = now
	} else {
		r.CompletedAt = time.Time{}
	}
}

// Toggle flips the completion state.
// PRE: now is non-zero
// POST: Completed is inverted; CompletedAt is now or cleared accordingly
func (r *Record) Toggle(now time.Time) {
	r.SetCompleted(!r.Completed, now)
}

// Percent returns round(completed*100/total), or 0 when total is 0.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}
