package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"backend/internal/store"
)

// In-memory stand-ins for the sheet and the mail providers.

type fakeRows struct {
	tabs map[string][][]string
}

func newFakeRows() *fakeRows {
	return &fakeRows{tabs: map[string][][]string{}}
}

func (f *fakeRows) seed(sheet string, rows [][]string) {
	f.tabs[sheet] = rows
}

func (f *fakeRows) ReadAll(_ context.Context, sheet string) ([][]string, error) {
	return f.tabs[sheet], nil
}

func (f *fakeRows) AppendRow(_ context.Context, sheet string, row []string) error {
	f.tabs[sheet] = append(f.tabs[sheet], row)
	return nil
}

func (f *fakeRows) UpdateRow(_ context.Context, sheet string, rowIndex1 int, row []string) error {
	f.tabs[sheet][rowIndex1-1] = row
	return nil
}

func (f *fakeRows) EnsureSheet(_ context.Context, sheet string, header []string) error {
	if _, ok := f.tabs[sheet]; !ok {
		f.tabs[sheet] = [][]string{header}
	}
	return nil
}

// rowCount counts data rows across every tab; zero means no write happened.
func (f *fakeRows) rowCount() int {
	n := 0
	for _, rows := range f.tabs {
		if len(rows) > 1 {
			n += len(rows) - 1
		}
	}
	return n
}

type sentMail struct {
	To      []string
	Subject string
	ReplyTo string
}

type fakeBrevo struct {
	sent     []sentMail
	upserted []string
}

func (f *fakeBrevo) Send(_ context.Context, to []string, subject, _, replyTo string) error {
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, ReplyTo: replyTo})
	return nil
}

func (f *fakeBrevo) SendTemplate(_ context.Context, toEmail, _ string, _ int64, _ map[string]any) error {
	f.sent = append(f.sent, sentMail{To: []string{toEmail}, Subject: "(template)"})
	return nil
}

func (f *fakeBrevo) UpsertContact(_ context.Context, email, _, _ string, _ int64) error {
	f.upserted = append(f.upserted, email)
	return nil
}

func (f *fakeBrevo) UpdateContactEmail(_ context.Context, _, _ string) error {
	return nil
}

type fakeResend struct {
	sent       []sentMail
	registered []string
}

func (f *fakeResend) Send(_ context.Context, to []string, subject, _, replyTo string) error {
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, ReplyTo: replyTo})
	return nil
}

func (f *fakeResend) RegisterContact(_ context.Context, email, _ string) error {
	f.registered = append(f.registered, email)
	return nil
}

type testEnv struct {
	deps   *Deps
	rows   *fakeRows
	brevo  *fakeBrevo
	resend *fakeResend
}

func newTestEnv() *testEnv {
	rows := newFakeRows()
	brevo := &fakeBrevo{}
	resend := &fakeResend{}
	return &testEnv{
		deps:   &Deps{Store: store.New(rows), Brevo: brevo, Resend: resend},
		rows:   rows,
		brevo:  brevo,
		resend: resend,
	}
}

func httpReq(method, body string) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{Body: body}
	req.RequestContext.HTTP.Method = method
	return req
}
