package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"backend/internal/config"
)

type Resend struct {
	client *resend.Client
}

func NewResend(apiKey string) *Resend {
	return &Resend{client: resend.NewClient(apiKey)}
}

// Send delivers a plain HTML email from the Resend sender address.
func (r *Resend) Send(ctx context.Context, to []string, subject, html, replyTo string) error {
	_, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", config.SenderName(), config.ResendSenderEmail()),
		To:      to,
		Subject: subject,
		Html:    html,
		ReplyTo: replyTo,
	})
	return err
}

// RegisterContact adds an email to the configured audience. An already
// registered contact is not an error; Resend errors here are informational
// only and callers treat them as best-effort.
func (r *Resend) RegisterContact(ctx context.Context, email, fullName string) error {
	audience := config.ResendAudienceID()
	if audience == "" {
		return nil
	}

	first, last, _ := strings.Cut(strings.TrimSpace(fullName), " ")
	_, err := r.client.Contacts.CreateWithContext(ctx, &resend.CreateContactRequest{
		Email:        email,
		AudienceId:   audience,
		FirstName:    first,
		LastName:     last,
		Unsubscribed: false,
	})
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "already") {
		return nil
	}
	return err
}
