package email

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/resend/resend-go/v2"
)

// SubjectPrefix marks every academy email so members can filter them.
const SubjectPrefix = "[Dojo] "

// tagValue matches the characters Resend accepts in tag names and values.
var tagValue = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// ResendSender delivers academy notifications through the Resend API.
type ResendSender struct {
	emails resend.EmailsSvc
	from   string
}

// NewResendSender returns a sender for the given API key and default from address.
// PRE: apiKey is a Resend API key; from is a verified sender address
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{emails: resend.NewClient(apiKey).Emails, from: from}
}

// Send delivers one notification.
// PRE: req has at least one recipient and a subject
// POST: Message accepted by Resend; MessageID is Resend's id. A repeated
// IdempotencyKey returns the original message instead of sending again.
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	// Options must be non-nil; an empty key sends no header.
	opts := &resend.SendEmailOptions{IdempotencyKey: req.IdempotencyKey}
	sent, err := s.emails.SendWithOptions(ctx, s.params(req), opts)
	if err != nil {
		slog.Error("email_event", "event", "send_failed", "category", req.Category, "recipients", len(req.To), "error", err)
		return SendResult{}, fmt.Errorf("resend %s email: %w", req.Category, err)
	}

	slog.Info("email_event", "event", "sent", "category", req.Category, "recipients", len(req.To), "message_id", sent.Id)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

// params maps a SendRequest onto the Resend payload.
func (s *ResendSender) params(req SendRequest) *resend.SendEmailRequest {
	p := &resend.SendEmailRequest{
		From:    req.From,
		To:      req.To,
		Subject: SubjectPrefix + req.Subject,
		Html:    req.HTML,
		ReplyTo: req.ReplyTo,
	}
	if p.From == "" {
		p.From = s.from
	}
	if req.Category != "" {
		p.Tags = []resend.Tag{{Name: "category", Value: tagValue.ReplaceAllString(req.Category, "_")}}
	}
	return p
}
