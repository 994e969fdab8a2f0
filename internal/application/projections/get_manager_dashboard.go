package projections

import (
	"context"

	childStore "dojo/internal/adapters/storage/child"
	requestStore "dojo/internal/adapters/storage/request"
	shiftStore "dojo/internal/adapters/storage/shift"
	techniqueStore "dojo/internal/adapters/storage/technique"
	"dojo/internal/domain/account"
	"dojo/internal/domain/child"
	"dojo/internal/domain/request"
	"dojo/internal/domain/technique"
)

// RequestListStore defines the request store interface needed by dashboards.
type RequestListStore interface {
	List(ctx context.Context, filter requestStore.ListFilter) ([]requestStore.Listing, error)
}

// UserListStore defines the user store interface needed by dashboards.
type UserListStore interface {
	ListByRole(ctx context.Context, role string) ([]account.User, error)
}

// ChildListStore defines the child store interface needed by dashboards.
type ChildListStore interface {
	List(ctx context.Context, filter childStore.ListFilter) ([]child.Child, error)
}

// TechniqueListStore defines the technique store interface needed by dashboards.
type TechniqueListStore interface {
	List(ctx context.Context, filter techniqueStore.ListFilter) ([]technique.Technique, error)
}

// ManagerDashboardDeps holds dependencies for ManagerDashboard.
type ManagerDashboardDeps struct {
	Shifts     ShiftListStore
	Requests   RequestListStore
	Users      UserListStore
	Children   ChildListStore
	Techniques TechniqueListStore
}

// ManagerDashboardResult is everything the manager's home screen shows.
type ManagerDashboardResult struct {
	Shifts          []shiftStore.Listing
	PendingRequests []requestStore.Listing
	Employees       []account.User
	Parents         []account.User
	Children        []child.Child
	Techniques      []technique.Technique
}

// QueryManagerDashboard assembles the manager's view of the whole academy.
// PRE: caller is a manager
// POST: shifts ordered by date and start time; pending requests oldest first
func QueryManagerDashboard(ctx context.Context, deps ManagerDashboardDeps) (ManagerDashboardResult, error) {
	var result ManagerDashboardResult
	var err error

	if result.Shifts, err = deps.Shifts.List(ctx, shiftStore.ListFilter{}); err != nil {
		return ManagerDashboardResult{}, err
	}
	if result.PendingRequests, err = deps.Requests.List(ctx, requestStore.ListFilter{Status: request.StatusPending}); err != nil {
		return ManagerDashboardResult{}, err
	}
	if result.Employees, err = deps.Users.ListByRole(ctx, account.RoleEmployee); err != nil {
		return ManagerDashboardResult{}, err
	}
	if result.Parents, err = deps.Users.ListByRole(ctx, account.RoleParent); err != nil {
		return ManagerDashboardResult{}, err
	}
	if result.Children, err = deps.Children.List(ctx, childStore.ListFilter{}); err != nil {
		return ManagerDashboardResult{}, err
	}
	if result.Techniques, err = deps.Techniques.List(ctx, techniqueStore.ListFilter{}); err != nil {
		return ManagerDashboardResult{}, err
	}
	return result, nil
}
