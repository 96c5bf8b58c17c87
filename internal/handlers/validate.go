package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"backend/internal/config"
)

// ValidateCode tells the storefront whether a discount code exists, so the
// form can show the discounted price before checkout. Percentage codes
// report a rate fraction, fixed codes an amount in cents.
func (d *Deps) ValidateCode(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method != "POST" {
		return errResp(405, "Method Not Allowed")
	}

	var in struct {
		Code string `json:"code"`
	}
	if err := parseBody(req, &in); err != nil {
		return errResp(400, "invalid JSON")
	}

	disc, ok := config.ResolveDiscount(in.Code)
	if !ok {
		return jsonResp(200, map[string]any{"valid": false})
	}

	if disc.Type == config.DiscountPercentage {
		return jsonResp(200, map[string]any{
			"valid": true,
			"rate":  float64(disc.Value) / 100,
		})
	}
	return jsonResp(200, map[string]any{
		"valid":      true,
		"amount_off": disc.Value,
	})
}
