package shift

import (
	"context"

	domain "dojo/internal/domain/shift"
)

// Store persists shifts.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Shift, error)
	Create(ctx context.Context, s domain.Shift) error
	Update(ctx context.Context, s domain.Shift) error
	List(ctx context.Context, filter ListFilter) ([]Listing, error)
}

// ListFilter narrows List. Empty fields do not filter.
// From and To are inclusive dates in 2006-01-02 form.
type ListFilter struct {
	EmployeeID string
	From       string
	To         string
}

// Listing is a shift joined with its owner's username.
type Listing struct {
	domain.Shift
	EmployeeUsername string
}
