package handlers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"backend/internal/config"
	"backend/internal/email"
)

type favorsRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	EventType string `json:"event_type"`
	Quantity  any    `json:"quantity"` // the form sends a string, the widget a number
	Message   string `json:"message"`
	Lang      string `json:"lang"`
	FaxNumber string `json:"fax_number"`
}

// Favors takes wedding/event favor quote requests: log the lead, mail the
// admin a lead card, auto-reply to the requester in their language.
func (d *Deps) Favors(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method != "POST" {
		return errResp(405, "Method Not Allowed")
	}

	var in favorsRequest
	if err := parseBody(req, &in); err != nil {
		return errResp(400, "invalid JSON")
	}
	if strings.TrimSpace(in.FaxNumber) != "" {
		fmt.Println("favors: honeypot tripped")
		return jsonResp(200, map[string]string{"message": "Success"})
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return errResp(400, "Nome obbligatorio")
	}
	emailAddr := strings.ToLower(strings.TrimSpace(in.Email))
	if emailAddr == "" || !isValidEmail(emailAddr) {
		return errResp(400, "Email non valida")
	}
	eventType := strings.TrimSpace(in.EventType)
	if eventType == "" {
		return errResp(400, "Tipo evento obbligatorio")
	}
	quantity, err := parseQuantity(in.Quantity)
	if err != nil {
		return errResp(400, "Quantità non valida")
	}

	lang := config.NormalizeLang(in.Lang)
	message := strings.TrimSpace(in.Message)

	if err := d.Store.AppendFavorRequest(ctx, name, emailAddr, lang, eventType, quantity, message); err != nil {
		fmt.Printf("favors: sheet append failed: %v\n", err)
	}

	if admin := config.AdminEmail(); admin != "" {
		subject, html := email.FavorsAdminLead(name, emailAddr, eventType, quantity, message, lang)
		if err := d.Resend.Send(ctx, []string{admin}, subject, html, emailAddr); err != nil {
			fmt.Printf("favors: lead email failed: %v\n", err)
		}
	}

	subject, html := email.FavorsAutoReply(name, eventType, quantity, lang)
	if err := d.Resend.Send(ctx, []string{emailAddr}, subject, html, ""); err != nil {
		fmt.Printf("favors: auto-reply failed: %v\n", err)
	}

	if err := d.Resend.RegisterContact(ctx, emailAddr, name); err != nil {
		fmt.Printf("favors: audience register failed: %v\n", err)
	}

	return jsonResp(200, map[string]any{"ok": true})
}

func parseQuantity(v any) (int, error) {
	switch q := v.(type) {
	case float64:
		if q > 0 && q == math.Trunc(q) {
			return int(q), nil
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(q)); err == nil && n > 0 {
			return n, nil
		}
	}
	return 0, fmt.Errorf("invalid quantity %v", v)
}
