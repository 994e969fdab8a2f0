package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"dojo/internal/domain/account"
	"dojo/internal/domain/apperr"
	"dojo/internal/domain/shift"
)

// ErrInvalidEmployee is returned when a shift is given to a non-employee.
var ErrInvalidEmployee = apperr.Validation("Please choose a valid employee.")

// UserStoreForShift defines the user lookup needed by shift orchestrators.
type UserStoreForShift interface {
	GetByID(ctx context.Context, id string) (account.User, error)
}

// ShiftStoreForCreate defines the shift store interface needed by CreateShift.
type ShiftStoreForCreate interface {
	Create(ctx context.Context, s shift.Shift) error
}

// ShiftInput carries the manager-editable shift fields.
type ShiftInput struct {
	EmployeeID   string
	Date         string
	StartTime    string
	EndTime      string
	ClassName    string
	ClearCallOut bool // update only
}

// CreateShiftDeps holds dependencies for CreateShift.
type CreateShiftDeps struct {
	Users      UserStoreForShift
	Shifts     ShiftStoreForCreate
	GenerateID func() string
}

// ExecuteCreateShift schedules a shift for an employee.
// PRE: caller is a manager
// POST: Shift persisted
// INVARIANT: the owner has the employee role
func ExecuteCreateShift(ctx context.Context, input ShiftInput, deps CreateShiftDeps) (shift.Shift, error) {
	s := shift.Shift{
		ID:         deps.GenerateID(),
		EmployeeID: input.EmployeeID,
		Date:       strings.TrimSpace(input.Date),
		StartTime:  strings.TrimSpace(input.StartTime),
		EndTime:    strings.TrimSpace(input.EndTime),
		ClassName:  strings.TrimSpace(input.ClassName),
	}
	if err := s.Validate(); err != nil {
		return shift.Shift{}, err
	}
	if err := requireEmployee(ctx, deps.Users, s.EmployeeID); err != nil {
		return shift.Shift{}, err
	}
	if err := deps.Shifts.Create(ctx, s); err != nil {
		return shift.Shift{}, err
	}

	slog.Info("shift_event", "event", "shift_created", "shift_id", s.ID, "employee_id", s.EmployeeID, "date", s.Date)
	return s, nil
}

// ShiftStoreForUpdate defines the shift store interface needed by UpdateShift.
type ShiftStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (shift.Shift, error)
	Update(ctx context.Context, s shift.Shift) error
}

// UpdateShiftDeps holds dependencies for UpdateShift.
type UpdateShiftDeps struct {
	Users  UserStoreForShift
	Shifts ShiftStoreForUpdate
}

// ExecuteUpdateShift edits a shift's owner, timing or class.
// PRE: caller is a manager
// POST: Shift updated; the call-out flag is kept unless ClearCallOut is set
func ExecuteUpdateShift(ctx context.Context, id string, input ShiftInput, deps UpdateShiftDeps) (shift.Shift, error) {
	s, err := deps.Shifts.GetByID(ctx, id)
	if err != nil {
		return shift.Shift{}, err
	}
	s.EmployeeID = input.EmployeeID
	s.Date = strings.TrimSpace(input.Date)
	s.StartTime = strings.TrimSpace(input.StartTime)
	s.EndTime = strings.TrimSpace(input.EndTime)
	s.ClassName = strings.TrimSpace(input.ClassName)
	if input.ClearCallOut {
		s.CalledOut = false
		s.CallOutNote = ""
	}
	if err := s.Validate(); err != nil {
		return shift.Shift{}, err
	}
	if err := requireEmployee(ctx, deps.Users, s.EmployeeID); err != nil {
		return shift.Shift{}, err
	}
	if err := deps.Shifts.Update(ctx, s); err != nil {
		return shift.Shift{}, err
	}

	slog.Info("shift_event", "event", "shift_updated", "shift_id", s.ID, "employee_id", s.EmployeeID, "called_out", s.CalledOut)
	return s, nil
}

func requireEmployee(ctx context.Context, users UserStoreForShift, id string) error {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrInvalidEmployee)
	}
	if u.Role != account.RoleEmployee {
		return ErrInvalidEmployee
	}
	return nil
}
