package handlers

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"

	"backend/internal/analytics"
	"backend/internal/config"
)

var monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// SalesReport aggregates a month of the order lake for the admin dashboard.
// Token-gated; this route is not exposed to the storefront.
func SalesReport(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method != "GET" {
		return errResp(405, "Method Not Allowed")
	}

	token := config.AdminAPIToken()
	if token == "" || header(req, "x-admin-token") != token {
		return errResp(401, "unauthorized")
	}

	month := strings.TrimSpace(req.QueryStringParameters["month"])
	if !monthRe.MatchString(month) {
		return errResp(400, "month must be YYYY-MM")
	}

	table := strings.TrimSpace(os.Getenv("ATHENA_TABLE"))
	if table == "" {
		return errResp(500, "ATHENA_TABLE is not set")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return errResp(500, "failed to init aws config")
	}

	// month is format-checked above, never interpolated raw
	sql := fmt.Sprintf(`SELECT product, language,
       SUM(order_count) AS orders,
       SUM(gross_eur)   AS gross_eur,
       SUM(gift_count)  AS gifts
FROM %s
WHERE dt LIKE '%s%%'
GROUP BY product, language
ORDER BY gross_eur DESC`, table, month)

	res, err := analytics.RunQuery(ctx, athena.NewFromConfig(cfg), sql, analytics.OptionsFromEnv())
	if err != nil {
		fmt.Printf("sales-report: query failed: %v\n", err)
		return errResp(502, "query failed")
	}

	type line struct {
		Product  string `json:"product"`
		Language string `json:"language"`
		Orders   string `json:"orders"`
		GrossEUR string `json:"gross_eur"`
		Gifts    string `json:"gifts"`
	}
	lines := make([]line, 0, len(res.Rows))
	for _, r := range res.Rows {
		if len(r) < 5 {
			continue
		}
		lines = append(lines, line{r[0], r[1], r[2], r[3], r[4]})
	}

	return jsonResp(200, map[string]any{
		"month": month,
		"rows":  lines,
	})
}
