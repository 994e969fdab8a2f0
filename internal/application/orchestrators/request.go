package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"dojo/internal/domain/account"
	"dojo/internal/domain/apperr"
	"dojo/internal/domain/request"
	"dojo/internal/domain/shift"
)

// ShiftStoreForSubmit defines the shift lookup needed by SubmitRequest.
type ShiftStoreForSubmit interface {
	GetByID(ctx context.Context, id string) (shift.Shift, error)
}

// UserStoreForSubmit defines the user lookup needed by SubmitRequest.
type UserStoreForSubmit interface {
	GetByID(ctx context.Context, id string) (account.User, error)
}

// RequestStoreForSubmit defines the request store interface needed by SubmitRequest.
type RequestStoreForSubmit interface {
	Create(ctx context.Context, r request.Request) error
}

// SubmitStores are the stores bound to one submission transaction.
type SubmitStores struct {
	Shifts   ShiftStoreForSubmit
	Users    UserStoreForSubmit
	Requests RequestStoreForSubmit
}

// SubmitRequestInput carries input for a switch or call-out request.
type SubmitRequestInput struct {
	Type                string
	RequesterID         string
	ShiftID             string
	RequestedEmployeeID string // switch only, optional
	Reason              string
}

// SubmitRequestDeps holds dependencies for SubmitRequest.
type SubmitRequestDeps struct {
	InTx       func(ctx context.Context, fn func(SubmitStores) error) error
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteSubmitRequest records a pending switch or call-out request.
// PRE: RequesterID is an employee
// POST: A pending request exists; on any error no row is written
// INVARIANT: ownership is read from the store, never trusted from the form
func ExecuteSubmitRequest(ctx context.Context, input SubmitRequestInput, deps SubmitRequestDeps) (request.Request, error) {
	r := request.Request{
		ID:                  deps.GenerateID(),
		Type:                input.Type,
		RequesterID:         input.RequesterID,
		ShiftID:             input.ShiftID,
		RequestedEmployeeID: input.RequestedEmployeeID,
		Reason:              strings.TrimSpace(input.Reason),
		Status:              request.StatusPending,
		CreatedAt:           deps.Now(),
	}
	if r.Type == request.TypeCallout {
		r.RequestedEmployeeID = ""
	}
	if err := r.Validate(); err != nil {
		return request.Request{}, err
	}

	err := deps.InTx(ctx, func(s SubmitStores) error {
		sh, err := s.Shifts.GetByID(ctx, r.ShiftID)
		if err != nil {
			return notFoundAs(err, request.NotOwnerError(r.Type))
		}
		if !sh.OwnedBy(r.RequesterID) {
			return request.NotOwnerError(r.Type)
		}
		if r.RequestedEmployeeID != "" {
			target, err := s.Users.GetByID(ctx, r.RequestedEmployeeID)
			if err != nil {
				return notFoundAs(err, request.ErrInvalidTarget)
			}
			if target.Role != account.RoleEmployee {
				return request.ErrInvalidTarget
			}
		}
		return s.Requests.Create(ctx, r)
	})
	if err != nil {
		slog.Info("request_event", "event", "request_refused", "type", r.Type, "requester_id", r.RequesterID, "shift_id", r.ShiftID, "reason", apperr.KindOf(err).String())
		return request.Request{}, err
	}

	slog.Info("request_event", "event", "request_submitted", "request_id", r.ID, "type", r.Type, "requester_id", r.RequesterID, "shift_id", r.ShiftID)
	return r, nil
}

// Resolution outcomes reported to the caller.
const (
	OutcomeRejected          = "rejected"
	OutcomeReassigned        = "reassigned"
	OutcomeCalledOut         = "called_out"
	OutcomeNeedsReassignment = "needs_reassignment"
)

// Resolution messages shown to the manager.
const (
	MsgRequestApproved       = "Request approved."
	MsgRequestRejected       = "Request rejected."
	MsgApprovedNeedsReassign = "Request approved. No replacement was named, so reassign the shift manually."
)

// RequestStoreForResolve defines the request store interface needed by ResolveRequest.
type RequestStoreForResolve interface {
	GetByID(ctx context.Context, id string) (request.Request, error)
	Decide(ctx context.Context, id, status, decidedBy string, decidedAt time.Time) error
}

// ShiftStoreForResolve defines the shift store interface needed by ResolveRequest.
type ShiftStoreForResolve interface {
	GetByID(ctx context.Context, id string) (shift.Shift, error)
	Update(ctx context.Context, s shift.Shift) error
}

// ResolveStores are the stores bound to one resolution transaction.
type ResolveStores struct {
	Requests RequestStoreForResolve
	Shifts   ShiftStoreForResolve
}

// ResolveRequestInput carries a manager's decision.
type ResolveRequestInput struct {
	RequestID string
	Action    string
	ManagerID string
}

// ResolveRequestResult describes what a resolution changed.
type ResolveRequestResult struct {
	Request request.Request
	Shift   shift.Shift // zero when the shift was not touched
	Outcome string
	Message string
}

// ResolveRequestDeps holds dependencies for ResolveRequest.
type ResolveRequestDeps struct {
	InTx func(ctx context.Context, fn func(ResolveStores) error) error
	Now  func() time.Time
}

// ExecuteResolveRequest approves or rejects a pending request and applies its effect.
// PRE: ManagerID is a manager
// POST: Request is terminal; an approved switch with a target moves the shift to the
// target, an approved call-out flags the shift. Status and shift change commit together.
// INVARIANT: a request is decided at most once
func ExecuteResolveRequest(ctx context.Context, input ResolveRequestInput, deps ResolveRequestDeps) (ResolveRequestResult, error) {
	if _, err := request.StatusFor(input.Action); err != nil {
		return ResolveRequestResult{}, err
	}
	now := deps.Now()

	var res ResolveRequestResult
	err := deps.InTx(ctx, func(s ResolveStores) error {
		r, err := s.Requests.GetByID(ctx, input.RequestID)
		if err != nil {
			return err
		}
		if err := r.Resolve(input.Action, input.ManagerID, now); err != nil {
			return err
		}
		if err := s.Requests.Decide(ctx, r.ID, r.Status, r.DecidedBy, r.DecidedAt); err != nil {
			return err
		}
		res = ResolveRequestResult{Request: r, Outcome: OutcomeRejected, Message: MsgRequestRejected}
		if r.Status != request.StatusApproved {
			return nil
		}

		if r.Type == request.TypeSwitch && !r.HasTarget() {
			res.Outcome = OutcomeNeedsReassignment
			res.Message = MsgApprovedNeedsReassign
			return nil
		}
		sh, err := s.Shifts.GetByID(ctx, r.ShiftID)
		if err != nil {
			return err
		}
		if r.Type == request.TypeSwitch {
			sh.ReassignTo(r.RequestedEmployeeID)
			res.Outcome = OutcomeReassigned
		} else {
			sh.MarkCalledOut(r.Reason)
			res.Outcome = OutcomeCalledOut
		}
		if err := s.Shifts.Update(ctx, sh); err != nil {
			return err
		}
		res.Shift = sh
		res.Message = MsgRequestApproved
		return nil
	})
	if err != nil {
		slog.Info("request_event", "event", "resolve_refused", "request_id", input.RequestID, "action", input.Action, "reason", apperr.KindOf(err).String())
		return ResolveRequestResult{}, err
	}

	slog.Info("request_event", "event", "request_resolved", "request_id", res.Request.ID, "type", res.Request.Type, "outcome", res.Outcome, "manager_id", input.ManagerID)
	return res, nil
}
