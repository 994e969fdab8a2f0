package projections

import (
	"context"
	"time"

	requestStore "dojo/internal/adapters/storage/request"
	shiftStore "dojo/internal/adapters/storage/shift"
	"dojo/internal/domain/account"
	"dojo/internal/domain/calendar"
)

// EmployeeDashboardQuery carries input for the employee dashboard.
type EmployeeDashboardQuery struct {
	EmployeeID string
	Today      time.Time
}

// EmployeeDashboardDeps holds dependencies for EmployeeDashboard.
type EmployeeDashboardDeps struct {
	Shifts   ShiftListStore
	Requests RequestListStore
	Users    UserListStore
}

// EmployeeDashboardResult is the employee's own schedule and request history.
type EmployeeDashboardResult struct {
	Shifts    []shiftStore.Listing
	Upcoming  []shiftStore.Listing // shifts on or after today, for the request forms
	Requests  []requestStore.Listing
	Coworkers []account.User // switch targets: every employee but the caller
}

// QueryEmployeeDashboard assembles one employee's dashboard.
// PRE: EmployeeID is non-empty
// POST: only the employee's own shifts and requests; requests newest first
func QueryEmployeeDashboard(ctx context.Context, query EmployeeDashboardQuery, deps EmployeeDashboardDeps) (EmployeeDashboardResult, error) {
	shifts, err := deps.Shifts.List(ctx, shiftStore.ListFilter{EmployeeID: query.EmployeeID})
	if err != nil {
		return EmployeeDashboardResult{}, err
	}
	requests, err := deps.Requests.List(ctx, requestStore.ListFilter{RequesterID: query.EmployeeID})
	if err != nil {
		return EmployeeDashboardResult{}, err
	}
	employees, err := deps.Users.ListByRole(ctx, account.RoleEmployee)
	if err != nil {
		return EmployeeDashboardResult{}, err
	}

	today := calendar.DayStart(query.Today)
	upcoming := make([]shiftStore.Listing, 0, len(shifts))
	for _, s := range shifts {
		if s.IsUpcoming(today) {
			upcoming = append(upcoming, s)
		}
	}
	coworkers := make([]account.User, 0, len(employees))
	for _, u := range employees {
		if u.ID != query.EmployeeID {
			coworkers = append(coworkers, u)
		}
	}

	return EmployeeDashboardResult{
		Shifts:    shifts,
		Upcoming:  upcoming,
		Requests:  requests,
		Coworkers: coworkers,
	}, nil
}
