package progress

import (
	"context"

	domain "dojo/internal/domain/progress"
)

// Store persists the child progress ledger.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Record, error)
	Create(ctx context.Context, r domain.Record) error
	Update(ctx context.Context, r domain.Record) error
	Totals(ctx context.Context, filter TotalsFilter) ([]ChildTotals, error)
	ListDetails(ctx context.Context, childIDs []string) ([]Detail, error)
}

// TotalsFilter narrows Totals. An empty ParentID covers every child.
type TotalsFilter struct {
	ParentID string
}

// ChildTotals counts a child's progress records.
type ChildTotals struct {
	ChildID   string
	ChildName string
	Total     int
	Completed int
}

// Detail is a progress record joined with display names.
type Detail struct {
	domain.Record
	TechniqueName      string
	AssignedByUsername string
}
