package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	emailAdapter "dojo/internal/adapters/email"
	"dojo/internal/domain/account"
	"dojo/internal/domain/request"
)

// UserStoreForNotify defines the user lookup needed by NotifyRequestDecision.
type UserStoreForNotify interface {
	GetByID(ctx context.Context, id string) (account.User, error)
}

// DecisionEmailCategory tags emails sent for request decisions.
const DecisionEmailCategory = "request_decision"

// NotifyRequestDecisionDeps holds dependencies for NotifyRequestDecision.
type NotifyRequestDecisionDeps struct {
	Users  UserStoreForNotify
	Sender emailAdapter.Sender
}

// ExecuteNotifyRequestDecision emails the requester about a committed decision.
// Runs after the decision commits; a failure here never undoes it.
// PRE: result comes from a successful ExecuteResolveRequest
// POST: One email sent when the requester has an address; false when skipped
func ExecuteNotifyRequestDecision(ctx context.Context, result ResolveRequestResult, deps NotifyRequestDecisionDeps) (bool, error) {
	if deps.Sender == nil {
		return false, nil
	}
	r := result.Request
	u, err := deps.Users.GetByID(ctx, r.RequesterID)
	if err != nil {
		return false, err
	}
	if u.Email == "" {
		slog.Debug("request_event", "event", "decision_email_skipped", "request_id", r.ID, "reason", "no_email")
		return false, nil
	}

	subject, body := decisionEmail(u.Username, result)
	if _, err := deps.Sender.Send(ctx, emailAdapter.SendRequest{
		To:             []string{u.Email},
		Subject:        subject,
		HTML:           body,
		Category:       DecisionEmailCategory,
		IdempotencyKey: DecisionEmailCategory + "/" + r.ID,
	}); err != nil {
		return false, err
	}

	slog.Info("request_event", "event", "decision_email_sent", "request_id", r.ID, "user_id", u.ID)
	return true, nil
}

func decisionEmail(username string, result ResolveRequestResult) (string, string) {
	kind := "shift switch"
	if result.Request.Type == request.TypeCallout {
		kind = "call-out"
	}
	subject := fmt.Sprintf("Your %s request was %s", kind, result.Request.Status)

	detail := ""
	switch result.Outcome {
	case OutcomeReassigned:
		detail = "The shift has been reassigned."
	case OutcomeCalledOut:
		detail = "The shift is marked as a call-out."
	case OutcomeNeedsReassignment:
		detail = "A manager will reassign the shift."
	}
	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p><p>%s</p>",
		html.EscapeString(username), html.EscapeString(subject+"."), html.EscapeString(detail))
	return subject, body
}
