package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"backend/internal/config"
	"backend/internal/email"
)

type updateEmailRequest struct {
	OldEmail string `json:"oldEmail"`
	NewEmail string `json:"newEmail"`
}

// UpdateEmail re-keys an adoption from one email to another: contact archive
// row, change log, Brevo contact, then notifications to the new address and
// the internal mailbox.
func (d *Deps) UpdateEmail(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method != "POST" {
		return errResp(405, "Method Not Allowed")
	}

	var in updateEmailRequest
	if err := parseBody(req, &in); err != nil {
		return errResp(400, "invalid JSON")
	}

	oldEmail := strings.TrimSpace(in.OldEmail)
	newEmail := strings.TrimSpace(in.NewEmail)
	if oldEmail == "" || newEmail == "" {
		return errResp(400, "Parametri mancanti")
	}
	if strings.EqualFold(oldEmail, newEmail) {
		return errResp(400, "Le email sono uguali")
	}
	if !isValidEmail(newEmail) {
		return errResp(400, "Email non valida")
	}

	replaced, err := d.Store.ReplaceContactEmail(ctx, oldEmail, newEmail)
	if err != nil {
		fmt.Printf("update-email: archive update failed: %v\n", err)
		return errResp(500, "Server error")
	}
	if !replaced {
		return errResp(404, "Vecchia email non trovata in Archivio contatti")
	}

	if err := d.Store.LogEmailChange(ctx, "UPDATE_EMAIL", oldEmail, newEmail, "Club", ""); err != nil {
		fmt.Printf("update-email: change log failed: %v\n", err)
	}

	if err := d.Brevo.UpdateContactEmail(ctx, oldEmail, newEmail); err != nil {
		fmt.Printf("update-email: brevo update failed: %v\n", err)
	}

	subject, html := email.EmailUpdatedNotice(oldEmail, newEmail)
	if err := d.Brevo.Send(ctx, []string{newEmail}, subject, html, ""); err != nil {
		fmt.Printf("update-email: customer notice failed: %v\n", err)
	}
	if info := config.InfoEmail(); info != "" {
		subject, html := email.EmailChangeInternal(oldEmail, newEmail)
		if err := d.Brevo.Send(ctx, []string{info}, subject, html, ""); err != nil {
			fmt.Printf("update-email: internal notice failed: %v\n", err)
		}
	}

	return jsonResp(200, map[string]any{"ok": true})
}
