package handlers

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"

	"backend/internal/config"
)

// trackDestinations maps short link keys to the hosted downloads.
var trackDestinations = map[string]string{
	"guida_it":   "https://drive.google.com/file/d/1JtgL8hSUGjuWiSi06XI-UF9PYoU1ygbc/view?usp=drive_link",
	"guida_en":   "https://drive.google.com/file/d/1wH2h0vL_kqbrwFVFI1_mIob-_tYDl3m4/view?usp=drive_link",
	"ricette_it": "https://drive.google.com/file/d/1HTWiSpS8iq0InjpzpRIC5jGNx5UU2eio/view?usp=drive_link",
	"ricette_en": "https://drive.google.com/file/d/1kxumxa3L2jdq41eDFTjU6KaUAzAcKPcc/view?usp=drive_link",
	"folder":     "https://drive.google.com/drive/folders/10Ht0naoEt1maogDr2QBiGSAgfg17K4Bw?usp=sharing",
}

// Track logs a download click and redirects to the real file. Unknown
// destinations bounce to the site root; the redirect never fails on a
// logging error.
func (d *Deps) Track(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	dest := req.QueryStringParameters["dest"]
	emailAddr := req.QueryStringParameters["email"]
	lang := req.QueryStringParameters["lang"]

	target, known := trackDestinations[dest]
	if !known {
		target = config.SiteURL()
	}

	if known {
		ua := header(req, "user-agent")
		if ua == "" {
			ua = "n/a"
		}
		if lang == "" {
			lang = "n/a"
		}
		if err := d.Store.AppendAnalyticsEvent(ctx, emailAddr, "Download "+dest, lang, ua); err != nil {
			fmt.Printf("track: analytics log failed: %v\n", err)
		}
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: 302,
		Headers: map[string]string{
			"location":      target,
			"cache-control": "no-cache",
		},
	}, nil
}
