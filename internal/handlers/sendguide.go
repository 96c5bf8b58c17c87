package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"backend/internal/config"
	"backend/internal/email"
)

type sendGuideRequest struct {
	MemberID  string `json:"memberId"`
	Email     string `json:"email"`
	Lang      string `json:"lang"`
	FaxNumber string `json:"fax_number"`
}

// SendGuide registers a certificate: stamp the recipient email on the order
// row carrying the member id (best-effort; the id may not be in the sheet
// yet) and send the tasting-guide email.
func (d *Deps) SendGuide(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method != "POST" {
		return errResp(405, "Method Not Allowed")
	}

	var in sendGuideRequest
	if err := parseBody(req, &in); err != nil {
		return errResp(400, "invalid JSON")
	}
	if strings.TrimSpace(in.FaxNumber) != "" {
		fmt.Println("send-guide: honeypot tripped")
		return jsonResp(200, map[string]string{"message": "Success"})
	}

	memberID := strings.ToUpper(strings.TrimSpace(in.MemberID))
	emailAddr := strings.ToLower(strings.TrimSpace(in.Email))

	if emailAddr == "" || !isValidEmail(emailAddr) {
		return errResp(400, "Email non valida")
	}
	if memberID == "" {
		return errResp(400, "Member ID richiesto")
	}

	updated, err := d.Store.SetRecipientEmailByMemberID(ctx, memberID, emailAddr)
	if err != nil {
		fmt.Printf("send-guide: order update failed: %v\n", err)
	} else if !updated {
		fmt.Printf("send-guide: member id %s not found in orders\n", memberID)
	}

	if err := d.Resend.RegisterContact(ctx, emailAddr, "Member "+memberID); err != nil {
		fmt.Printf("send-guide: audience register failed: %v\n", err)
	}

	lang := config.NormalizeLang(in.Lang)
	subject, html := email.GuideEmail(memberID, lang)
	if err := d.Resend.Send(ctx, []string{emailAddr}, subject, html, ""); err != nil {
		fmt.Printf("send-guide: guide email failed: %v\n", err)
		return errResp(500, "Invio email fallito")
	}

	return jsonResp(200, map[string]any{"success": true, "sheetUpdated": updated})
}
