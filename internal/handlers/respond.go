// Package handlers holds the Lambda entrypoints behind the storefront's
// API Gateway routes. Each handler is a method on Deps so tests can swap the
// row store and mail providers for fakes.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

func jsonResp(status int, v any) (events.APIGatewayV2HTTPResponse, error) {
	b, _ := json.Marshal(v)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"content-type":                "application/json",
			"access-control-allow-origin": "*",
		},
		Body: string(b),
	}, nil
}

func errResp(status int, msg string) (events.APIGatewayV2HTTPResponse, error) {
	return jsonResp(status, map[string]any{
		"error": msg,
	})
}

func htmlResp(status int, body string) (events.APIGatewayV2HTTPResponse, error) {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"content-type":                "text/html; charset=utf-8",
			"access-control-allow-origin": "*",
		},
		Body: body,
	}, nil
}

// rawBody undoes API Gateway's base64 wrapping. The webhook needs the exact
// bytes Stripe signed, so this is the only place the body gets decoded.
func rawBody(req events.APIGatewayV2HTTPRequest) []byte {
	if req.IsBase64Encoded {
		if b, err := base64.StdEncoding.DecodeString(req.Body); err == nil {
			return b
		}
	}
	return []byte(req.Body)
}

func parseBody(req events.APIGatewayV2HTTPRequest, v any) error {
	return json.Unmarshal(rawBody(req), v)
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func acceptsHTML(req events.APIGatewayV2HTTPRequest) bool {
	for k, v := range req.Headers {
		if strings.EqualFold(k, "accept") {
			return strings.Contains(v, "text/html")
		}
	}
	return false
}

func header(req events.APIGatewayV2HTTPRequest, name string) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
