package request

import (
	"context"
	"time"

	domain "dojo/internal/domain/request"
)

// Store persists shift requests.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Request, error)
	Create(ctx context.Context, r domain.Request) error
	Decide(ctx context.Context, id, status, decidedBy string, decidedAt time.Time) error
	List(ctx context.Context, filter ListFilter) ([]Listing, error)
}

// ListFilter narrows List. Pending lists are oldest first, all others newest first.
type ListFilter struct {
	Status      string
	RequesterID string
}

// Listing is a request joined with the people and shift it refers to.
type Listing struct {
	domain.Request
	RequesterUsername string
	TargetUsername    string
	ShiftDate         string
	ShiftStart        string
	ShiftEnd          string
	ClassName         string
}
