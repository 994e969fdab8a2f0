package shift

import (
	"strings"
	"time"

	"dojo/internal/domain/apperr"
)

// CallOutMarker is appended to the class name for display once a call-out is approved.
const CallOutMarker = " (CALL-OUT)"

// Layouts for shift dates and times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// MaxClassNameLength caps class names.
const MaxClassNameLength = 120

// Domain errors
var (
	ErrEmptyEmployeeID  = apperr.Validation("Please choose an employee.")
	ErrInvalidDate      = apperr.Validation("Shift date must be in YYYY-MM-DD format.")
	ErrInvalidStartTime = apperr.Validation("Start time must be in HH:MM format.")
	ErrInvalidEndTime   = apperr.Validation("End time must be in HH:MM format.")
	ErrEndBeforeStart   = apperr.Validation("End time must be after start time.")
	ErrEmptyClassName   = apperr.Validation("Class name is required.")
	ErrClassNameTooLong = apperr.Validation("Class name cannot exceed 120 characters.")
	ErrNotFound         = apperr.NotFound("Shift not found.")
)

// Shift is one instructor's assignment to teach a class.
// A shift has exactly one owner; an approved switch changes EmployeeID in place.
type Shift struct {
	ID          string
	EmployeeID  string
	Date        string // 2006-01-02
	StartTime   string // 15:04
	EndTime     string // 15:04
	ClassName   string
	CalledOut   bool
	CallOutNote string
}

// Validate checks if the Shift has valid data.
// PRE: Shift struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Shift) Validate() error {
	if s.EmployeeID == "" {
		return ErrEmptyEmployeeID
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return ErrInvalidDate
	}
	start, err := time.Parse(TimeLayout, s.StartTime)
	if err != nil {
		return ErrInvalidStartTime
	}
	end, err := time.Parse(TimeLayout, s.EndTime)
	if err != nil {
		return ErrInvalidEndTime
	}
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	name := strings.TrimSpace(s.ClassName)
	if name == "" {
		return ErrEmptyClassName
	}
	if len(name) > MaxClassNameLength {
		return ErrClassNameTooLong
	}
	return nil
}

// OwnedBy reports whether userID currently owns the shift.
func (s *Shift) OwnedBy(userID string) bool {
	return userID != "" && s.EmployeeID == userID
}

// ReassignTo moves the shift to another employee. Other fields are untouched.
// PRE: employeeID is non-empty
// POST: EmployeeID == employeeID
func (s *Shift) ReassignTo(employeeID string) {
	s.EmployeeID = employeeID
}

// MarkCalledOut flags the shift as unable to be worked.
// The owner is kept. Repeated calls keep a single flag.
// POST: CalledOut is true; CallOutNote is note when note is non-empty
func (s *Shift) MarkCalledOut(note string) {
	s.CalledOut = true
	if note != "" {
		s.CallOutNote = note
	}
}

// DisplayName returns the class name with the call-out marker when flagged.
// INVARIANT: the marker appears at most once
func (s Shift) DisplayName() string {
	if s.CalledOut {
		return s.ClassName + CallOutMarker
	}
	return s.ClassName
}

// IsUpcoming reports whether the shift date is on or after today.
func (s *Shift) IsUpcoming(today time.Time) bool {
	return s.Date >= today.Format(DateLayout)
}

// DurationHours returns the shift duration in hours.
// PRE: StartTime and EndTime are in HH:MM format
// POST: Returns duration as float64 hours, or 0 if times can't be parsed
func (s *Shift) DurationHours() float64 {
	start, err := time.Parse(TimeLayout, s.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse(TimeLayout, s.EndTime)
	if err != nil {
		return 0
	}
	return end.Sub(start).Hours()
}
