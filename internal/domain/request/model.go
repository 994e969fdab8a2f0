package request

import (
	"time"

	"dojo/internal/domain/apperr"
)

// Request types
const (
	TypeSwitch  = "switch"
	TypeCallout = "callout"
)

// Request statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Manager actions
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// MaxReasonLength caps the free-text reason.
const MaxReasonLength = 500

// Domain errors
var (
	ErrInvalidType      = apperr.Validation("Request type must be switch or callout.")
	ErrInvalidAction    = apperr.Validation("Invalid action.")
	ErrEmptyRequester   = apperr.Validation("Requester is required.")
	ErrEmptyShiftID     = apperr.Validation("Please choose a shift.")
	ErrReasonTooLong    = apperr.Validation("Reason cannot exceed 500 characters.")
	ErrTargetOnCallout  = apperr.Validation("Call-out requests cannot name a replacement.")
	ErrTargetIsSelf     = apperr.Validation("Choose a different employee to take the shift.")
	ErrInvalidTarget    = apperr.Validation("Requested employee is not a valid employee.")
	ErrNotFound         = apperr.NotFound("Request not found.")
	ErrAlreadyProcessed = apperr.Conflict("Request already processed.")
	ErrSwitchNotOwner   = apperr.Unauthorized("You can only request switches for your own shifts.")
	ErrCalloutNotOwner  = apperr.Unauthorized("You can only submit call-outs for your own shifts.")
)

// Request is an employee's switch or call-out request for one of their shifts.
// Status moves pending -> approved or pending -> rejected, once.
type Request struct {
	ID                  string
	Type                string
	RequesterID         string
	ShiftID             string
	RequestedEmployeeID string // switch only, optional
	Reason              string
	Status              string
	CreatedAt           time.Time
	DecidedBy           string
	DecidedAt           time.Time
}

// Validate checks if the Request has valid data.
// PRE: Request struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Request) Validate() error {
	if !IsValidType(r.Type) {
		return ErrInvalidType
	}
	if r.RequesterID == "" {
		return ErrEmptyRequester
	}
	if r.ShiftID == "" {
		return ErrEmptyShiftID
	}
	if len(r.Reason) > MaxReasonLength {
		return ErrReasonTooLong
	}
	if r.Type == TypeCallout && r.RequestedEmployeeID != "" {
		return ErrTargetOnCallout
	}
	if r.RequestedEmployeeID != "" && r.RequestedEmployeeID == r.RequesterID {
		return ErrTargetIsSelf
	}
	return nil
}

// NotOwnerError returns the authorization error for the request type.
func NotOwnerError(requestType string) error {
	if requestType == TypeCallout {
		return ErrCalloutNotOwner
	}
	return ErrSwitchNotOwner
}

// IsPending returns true if the request is awaiting a decision.
// INVARIANT: Status field is not mutated
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// HasTarget reports whether a switch names a replacement employee.
func (r *Request) HasTarget() bool {
	return r.Type == TypeSwitch && r.RequestedEmployeeID != ""
}

// Resolve applies a manager action.
// PRE: action is approve or reject; managerID is non-empty
// POST: Status is approved/rejected, DecidedBy and DecidedAt are set
// INVARIANT: a non-pending request is never changed
func (r *Request) Resolve(action, managerID string, now time.Time) error {
	status, err := StatusFor(action)
	if err != nil {
		return err
	}
	if !r.IsPending() {
		return ErrAlreadyProcessed
	}
	r.Status = status
	r.DecidedBy = managerID
	r.DecidedAt = now
	return nil
}

// StatusFor maps a manager action to the terminal status it produces.
// Only the exact lowercase action names are accepted.
func StatusFor(action string) (string, error) {
	switch action {
	case ActionApprove:
		return StatusApproved, nil
	case ActionReject:
		return StatusRejected, nil
	default:
		return "", ErrInvalidAction
	}
}

// IsValidType reports whether t is a known request type.
func IsValidType(t string) bool {
	return t == TypeSwitch || t == TypeCallout
}
