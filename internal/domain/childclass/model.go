package childclass

import (
	"strings"
	"time"

	"dojo/internal/domain/apperr"
)

// Layouts for class dates and times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Domain errors
var (
	ErrEmptyChildID     = apperr.Validation("Please choose a child.")
	ErrInvalidDate      = apperr.Validation("Class date must be in YYYY-MM-DD format.")
	ErrInvalidStartTime = apperr.Validation("Start time must be in HH:MM format.")
	ErrInvalidEndTime   = apperr.Validation("End time must be in HH:MM format.")
	ErrEndBeforeStart   = apperr.Validation("End time must be after start time.")
	ErrEmptyTitle       = apperr.Validation("Class title is required.")
)

// Class is a scheduled class a child attends, shown on the parent calendar.
type Class struct {
	ID             string
	ChildID        string
	Date           string // 2006-01-02
	StartTime      string // 15:04
	EndTime        string // 15:04
	Title          string
	InstructorName string
}

// Validate checks if the Class has valid data.
// PRE: Class struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Class) Validate() error {
	if c.ChildID == "" {
		return ErrEmptyChildID
	}
	if _, err := time.Parse(DateLayout, c.Date); err != nil {
		return ErrInvalidDate
	}
	start, err := time.Parse(TimeLayout, c.StartTime)
	if err != nil {
		return ErrInvalidStartTime
	}
	end, err := time.Parse(TimeLayout, c.EndTime)
	if err != nil {
		return ErrInvalidEndTime
	}
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
