package handlers

import (
	"context"
	"fmt"

	"backend/internal/alerts"
	"backend/internal/config"
	"backend/internal/db"
	"backend/internal/email"
	"backend/internal/sheets"
	"backend/internal/store"
)

// BrevoAPI is the slice of the Brevo client the handlers use.
type BrevoAPI interface {
	Send(ctx context.Context, to []string, subject, html, replyTo string) error
	SendTemplate(ctx context.Context, toEmail, toName string, templateID int64, params map[string]any) error
	UpsertContact(ctx context.Context, email, name, language string, listID int64) error
	UpdateContactEmail(ctx context.Context, oldEmail, newEmail string) error
}

// ResendAPI is the slice of the Resend client the handlers use.
type ResendAPI interface {
	Send(ctx context.Context, to []string, subject, html, replyTo string) error
	RegisterContact(ctx context.Context, email, fullName string) error
}

// Deps bundles the shared clients a handler invocation needs.
type Deps struct {
	Store  *store.Store
	Brevo  BrevoAPI
	Resend ResendAPI
	DDB    db.API
	Alerts *alerts.Notifier
}

// New wires live clients from the environment. The sheet client is the only
// hard requirement; DynamoDB and the alert topic degrade to no-ops so a
// missing table never takes the storefront down.
func New(ctx context.Context) (*Deps, error) {
	sc, err := sheets.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init sheets: %w", err)
	}

	var ddb db.API
	if client, err := db.NewDynamoClient(ctx); err != nil {
		fmt.Printf("deps: dynamodb unavailable: %v\n", err)
	} else {
		ddb = client
	}

	return &Deps{
		Store:  store.New(sc),
		Brevo:  email.NewBrevo(config.Secret(ctx, "BREVO_API_KEY")),
		Resend: email.NewResend(config.Secret(ctx, "RESEND_API_KEY")),
		DDB:    ddb,
		Alerts: alerts.New(ctx),
	}, nil
}
