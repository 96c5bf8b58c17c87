// Package sheets wraps the Google Sheets values API. The spreadsheet is the
// system's datastore: rows are plain string slices, one tab per record kind.
package sheets

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *sheets.Service
	spreadsheetID string
}

// New builds a client from GOOGLE_SERVICE_ACCOUNT_ENCODED (base64 of the
// service-account JSON) and GSHEET_ID.
func New(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GSHEET_ID"))
	if spreadsheetID == "" {
		return nil, fmt.Errorf("GSHEET_ID not set")
	}

	encoded := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_ENCODED"))
	if encoded == "" {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_ENCODED not set")
	}
	creds, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode service account: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// ReadAll returns every populated row of a tab, header included. A missing
// tab reads as empty rather than an error; callers decide what that means.
func (c *Client) ReadAll(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, sheet+"!A:Z").
		Context(ctx).Do()
	if err != nil {
		if strings.Contains(err.Error(), "Unable to parse range") {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", sheet, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprintf("%v", v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *Client) AppendRow(ctx context.Context, sheet string, row []string) error {
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, sheet+"!A:Z", valueRange(row)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}

// UpdateRow overwrites row rowIndex1 (1-based, header is row 1) in place.
func (c *Client) UpdateRow(ctx context.Context, sheet string, rowIndex1 int, row []string) error {
	rng := fmt.Sprintf("%s!A%d:%s%d", sheet, rowIndex1, a1Col(len(row)), rowIndex1)
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, rng, valueRange(row)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", sheet, rowIndex1, err)
	}
	return nil
}

// EnsureSheet creates the tab with the given header when it doesn't exist.
func (c *Client) EnsureSheet(ctx context.Context, sheet string, header []string) error {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheet {
			return nil
		}
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheet},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", sheet, err)
	}

	rng := fmt.Sprintf("%s!A1:%s1", sheet, a1Col(len(header)))
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, rng, valueRange(header)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	return nil
}

func valueRange(row []string) *sheets.ValueRange {
	vals := make([]interface{}, len(row))
	for i, v := range row {
		vals[i] = v
	}
	return &sheets.ValueRange{Values: [][]interface{}{vals}}
}

// a1Col converts 1-based column numbers to A1 letters (1->A, 27->AA).
func a1Col(n int) string {
	s := ""
	for n > 0 {
		r := (n - 1) % 26
		s = string(rune('A'+r)) + s
		n = (n - 1) / 26
	}
	return s
}
