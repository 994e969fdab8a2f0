package projections

import (
	"context"
	"time"

	shiftStore "dojo/internal/adapters/storage/shift"
	"dojo/internal/domain/calendar"
)

// ShiftListStore defines the shift store interface needed by shift projections.
type ShiftListStore interface {
	List(ctx context.Context, filter shiftStore.ListFilter) ([]shiftStore.Listing, error)
}

// ShiftCalendarQuery carries input for the two-week shift calendar.
type ShiftCalendarQuery struct {
	Start      time.Time
	EmployeeID string // optional: only this employee's shifts
}

// ShiftCalendarDeps holds dependencies for ShiftCalendar.
type ShiftCalendarDeps struct {
	Shifts ShiftListStore
}

// QueryShiftCalendar buckets shifts into fourteen days starting at Start.
// PRE: Start is a valid date
// POST: exactly two weeks of seven days, each ordered by start time
func QueryShiftCalendar(ctx context.Context, query ShiftCalendarQuery, deps ShiftCalendarDeps) (calendar.TwoWeeks[shiftStore.Listing], error) {
	from := calendar.DayStart(query.Start)
	shifts, err := deps.Shifts.List(ctx, shiftStore.ListFilter{
		EmployeeID: query.EmployeeID,
		From:       from.Format(calendar.DateLayout),
		To:         calendar.WindowEnd(from).Format(calendar.DateLayout),
	})
	if err != nil {
		return calendar.TwoWeeks[shiftStore.Listing]{}, err
	}
	return calendar.BuildTwoWeeks(from, shifts, func(l shiftStore.Listing) string { return l.Date }), nil
}
