package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

func unsubscribePage(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>body{font-family:sans-serif;display:flex;justify-content:center;align-items:center;height:100vh;background:#f5f5f5;margin:0}div{background:white;padding:30px;border-radius:8px;box-shadow:0 2px 10px rgba(0,0,0,0.1);text-align:center}h1{color:#333}p{color:#666}</style>
</head>
<body><div><h1>%s</h1><p>%s</p></div></body>
</html>`, html.EscapeString(title), html.EscapeString(title), message)
}

// Unsubscribe flips the newsletter status to DISISCRITTO. Mail-client links
// arrive as GET with an Accept: text/html header and get a page back;
// programmatic calls get JSON.
func (d *Deps) Unsubscribe(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	wantHTML := acceptsHTML(req)

	var emailAddr string
	switch req.RequestContext.HTTP.Method {
	case "POST":
		var in struct {
			Email     string `json:"email"`
			FaxNumber string `json:"fax_number"`
		}
		if err := parseBody(req, &in); err != nil {
			return errResp(400, "invalid JSON")
		}
		if strings.TrimSpace(in.FaxNumber) != "" {
			fmt.Println("unsubscribe: honeypot tripped")
			return jsonResp(200, map[string]string{"message": "Success"})
		}
		emailAddr = in.Email
	case "GET":
		emailAddr = req.QueryStringParameters["email"]
	default:
		return errResp(405, "Method Not Allowed")
	}

	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || !isValidEmail(emailAddr) {
		if wantHTML {
			return htmlResp(400, unsubscribePage("Errore", "Email non valida o mancante."))
		}
		return errResp(400, "Email non valida o mancante.")
	}

	changed, err := d.Store.MarkUnsubscribed(ctx, emailAddr)
	if err != nil {
		fmt.Printf("unsubscribe: %v\n", err)
		if wantHTML {
			return htmlResp(500, unsubscribePage("Errore", "Errore interno del server durante la disiscrizione."))
		}
		return errResp(500, "Errore interno del server durante la disiscrizione.")
	}
	fmt.Printf("unsubscribe: %s, %d rows updated\n", emailAddr, changed)

	if wantHTML {
		return htmlResp(200, unsubscribePage("Disiscrizione Confermata",
			fmt.Sprintf("L'indirizzo <strong>%s</strong> è stato rimosso con successo.", html.EscapeString(emailAddr))))
	}
	return jsonResp(200, map[string]any{"message": "OK", "success": true})
}
