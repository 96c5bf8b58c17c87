package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"backend/internal/config"
	"backend/internal/email"
	"backend/internal/store"
)

type contactRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Language  string `json:"language"`
	FaxNumber string `json:"fax_number"`
}

// Contact handles the site's message form: log the message, archive the
// sender, forward to the admin inbox with reply-to set to the sender.
func (d *Deps) Contact(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method != "POST" {
		return errResp(405, "Method Not Allowed")
	}

	var in contactRequest
	if err := parseBody(req, &in); err != nil {
		return errResp(400, "invalid JSON")
	}
	if strings.TrimSpace(in.FaxNumber) != "" {
		fmt.Println("contact: honeypot tripped")
		return jsonResp(200, map[string]string{"message": "Success"})
	}

	if in.Email == "" || in.Message == "" {
		return errResp(400, "Email e messaggio sono obbligatori")
	}
	if !isValidEmail(in.Email) {
		return errResp(400, "Email non valida")
	}
	lang := config.NormalizeLang(in.Language)

	if err := d.Store.AppendMessage(ctx, in.Name, in.Email, in.Message, lang); err != nil {
		fmt.Printf("contact: message append failed: %v\n", err)
		return errResp(500, "Errore server")
	}

	if err := d.Store.UpsertContact(ctx, store.ContactUpdate{
		Email:    in.Email,
		Name:     in.Name,
		Language: lang,
	}); err != nil {
		fmt.Printf("contact: archive upsert failed: %v\n", err)
	}

	if admin := config.AdminEmail(); admin != "" {
		subject, html := email.ContactAdminNotice(in.Name, in.Email, in.Message)
		if err := d.Resend.Send(ctx, []string{admin}, subject, html, in.Email); err != nil {
			fmt.Printf("contact: admin email failed: %v\n", err)
		}
	}
	if err := d.Resend.RegisterContact(ctx, in.Email, in.Name); err != nil {
		fmt.Printf("contact: audience register failed: %v\n", err)
	}

	return jsonResp(200, map[string]any{"ok": true})
}
