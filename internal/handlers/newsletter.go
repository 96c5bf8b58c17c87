package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"backend/internal/config"
)

type newsletterRequest struct {
	Email     string `json:"email"`
	Privacy   bool   `json:"privacy"`
	Lang      string `json:"lang"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FaxNumber string `json:"fax_number"`
}

// Newsletter records a signup and mirrors it into the Resend audience. The
// sheet is the database; the audience only exists to send from.
func (d *Deps) Newsletter(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method != "POST" {
		return errResp(405, "Method Not Allowed")
	}

	var in newsletterRequest
	if err := parseBody(req, &in); err != nil {
		return errResp(400, "invalid JSON")
	}
	if strings.TrimSpace(in.FaxNumber) != "" {
		fmt.Println("newsletter: honeypot tripped")
		return jsonResp(200, map[string]bool{"success": true})
	}

	emailAddr := strings.ToLower(strings.TrimSpace(in.Email))
	if emailAddr == "" || !in.Privacy {
		return errResp(400, "Email e Privacy obbligatorie.")
	}
	if !isValidEmail(emailAddr) {
		return errResp(400, "Email non valida")
	}

	name := strings.TrimSpace(in.FirstName + " " + in.LastName)
	lang := config.NormalizeLang(in.Lang)

	if err := d.Store.AppendNewsletterSignup(ctx, emailAddr, name, lang); err != nil {
		fmt.Printf("newsletter: signup log failed: %v\n", err)
	}
	if err := d.Resend.RegisterContact(ctx, emailAddr, name); err != nil {
		fmt.Printf("newsletter: audience register failed: %v\n", err)
	}

	return jsonResp(200, map[string]bool{"success": true})
}
