// Package email sends transactional mail. Order and claim flows go through
// Brevo, intake flows through Resend, matching which provider each list
// lives on.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"backend/internal/config"
)

const brevoBase = "https://api.brevo.com/v3"

type Brevo struct {
	apiKey string
	hc     *http.Client
}

func NewBrevo(apiKey string) *Brevo {
	return &Brevo{apiKey: apiKey, hc: http.DefaultClient}
}

func (b *Brevo) post(ctx context.Context, method, path string, body any) error {
	raw, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, method, brevoBase+path, bytes.NewReader(raw))
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")

	res, err := b.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("brevo %s: http %d: %s", path, res.StatusCode, string(msg))
	}
	return nil
}

// Send delivers a plain HTML email from the configured sender.
func (b *Brevo) Send(ctx context.Context, to []string, subject, html, replyTo string) error {
	recipients := make([]map[string]string, 0, len(to))
	for _, e := range to {
		recipients = append(recipients, map[string]string{"email": e})
	}

	payload := map[string]any{
		"sender": map[string]string{
			"email": config.SenderEmail(),
			"name":  config.SenderName(),
		},
		"to":          recipients,
		"subject":     subject,
		"htmlContent": html,
	}
	if replyTo != "" {
		payload["replyTo"] = map[string]string{"email": replyTo}
	}
	return b.post(ctx, http.MethodPost, "/smtp/email", payload)
}

// SendTemplate delivers a Brevo template with substitution params.
func (b *Brevo) SendTemplate(ctx context.Context, toEmail, toName string, templateID int64, params map[string]any) error {
	return b.post(ctx, http.MethodPost, "/smtp/email", map[string]any{
		"sender": map[string]string{
			"email": config.SenderEmail(),
			"name":  config.SenderName(),
		},
		"to":         []map[string]string{{"email": toEmail, "name": toName}},
		"templateId": templateID,
		"params":     params,
	})
}

// UpsertContact creates-or-updates a Brevo contact, optionally placing it
// on a list.
func (b *Brevo) UpsertContact(ctx context.Context, email, name, language string, listID int64) error {
	payload := map[string]any{
		"email": email,
		"attributes": map[string]string{
			"NOME":   name,
			"LINGUA": strings.ToUpper(language),
		},
		"updateEnabled": true,
	}
	if listID > 0 {
		payload["listIds"] = []int64{listID}
	}
	return b.post(ctx, http.MethodPost, "/contacts", payload)
}

// UpdateContactEmail re-keys a contact from oldEmail to newEmail. When the
// old contact doesn't exist the new one is created instead.
func (b *Brevo) UpdateContactEmail(ctx context.Context, oldEmail, newEmail string) error {
	err := b.post(ctx, http.MethodPut, "/contacts/"+url.PathEscape(oldEmail),
		map[string]any{"email": newEmail})
	if err == nil {
		return nil
	}
	return b.post(ctx, http.MethodPost, "/contacts",
		map[string]any{"email": newEmail, "updateEnabled": true})
}
