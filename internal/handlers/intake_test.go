package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/store"
)

func TestContactStoresAndNotifies(t *testing.T) {
	t.Setenv("EMAIL_ADMIN", "admin@ayo.test")
	env := newTestEnv()

	body := `{"name":"Anna","email":"a@x.com","message":"Ciao!","language":"it"}`
	resp, err := env.deps.Contact(context.Background(), httpReq("POST", body))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	require.Len(t, env.rows.tabs[store.SheetMessages], 2)
	require.Len(t, env.rows.tabs[store.SheetContacts], 2)

	require.Len(t, env.resend.sent, 1)
	assert.Equal(t, []string{"admin@ayo.test"}, env.resend.sent[0].To)
	assert.Equal(t, "a@x.com", env.resend.sent[0].ReplyTo)
	assert.Contains(t, env.resend.registered, "a@x.com")
}

func TestContactRequiresEmailAndMessage(t *testing.T) {
	env := newTestEnv()

	resp, err := env.deps.Contact(context.Background(), httpReq("POST", `{"name":"Anna"}`))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, 0, env.rows.rowCount())
}

func TestNewsletterRequiresPrivacyConsent(t *testing.T) {
	env := newTestEnv()

	resp, err := env.deps.Newsletter(context.Background(),
		httpReq("POST", `{"email":"a@x.com","privacy":false}`))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = env.deps.Newsletter(context.Background(),
		httpReq("POST", `{"email":"a@x.com","privacy":true,"firstName":"Anna","lang":"it"}`))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	row := env.rows.tabs[store.SheetNewsletter][1]
	assert.Equal(t, "a@x.com", row[1])
	assert.Equal(t, "ISCRITTO", row[4])
	assert.Contains(t, env.resend.registered, "a@x.com")
}

func TestNewsletterHoneypot(t *testing.T) {
	env := newTestEnv()

	resp, err := env.deps.Newsletter(context.Background(),
		httpReq("POST", `{"email":"a@x.com","privacy":true,"fax_number":"123"}`))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 0, env.rows.rowCount())
	assert.Empty(t, env.resend.registered)
}

func TestFavorsValidation(t *testing.T) {
	env := newTestEnv()

	cases := map[string]string{
		"missing name":  `{"email":"a@x.com","event_type":"Matrimonio","quantity":50}`,
		"bad email":     `{"name":"Anna","email":"nope","event_type":"Matrimonio","quantity":50}`,
		"missing event": `{"name":"Anna","email":"a@x.com","quantity":50}`,
		"bad quantity":  `{"name":"Anna","email":"a@x.com","event_type":"Matrimonio","quantity":"many"}`,
		"fractional":    `{"name":"Anna","email":"a@x.com","event_type":"Matrimonio","quantity":2.7}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := env.deps.Favors(context.Background(), httpReq("POST", body))
			require.NoError(t, err)
			assert.Equal(t, 400, resp.StatusCode)
		})
	}
}

func TestFavorsAcceptsStringOrNumberQuantity(t *testing.T) {
	t.Setenv("EMAIL_ADMIN", "admin@ayo.test")
	env := newTestEnv()

	resp, err := env.deps.Favors(context.Background(),
		httpReq("POST", `{"name":"Anna","email":"a@x.com","event_type":"Matrimonio","quantity":"50","lang":"it"}`))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	require.Len(t, env.rows.tabs[store.SheetFavors], 2)
	assert.Equal(t, "50", env.rows.tabs[store.SheetFavors][1][5])

	// lead card to the admin, auto-reply to the requester
	require.Len(t, env.resend.sent, 2)
	assert.Equal(t, []string{"admin@ayo.test"}, env.resend.sent[0].To)
	assert.Equal(t, []string{"a@x.com"}, env.resend.sent[1].To)
}

func TestUnsubscribeContentNegotiation(t *testing.T) {
	env := newTestEnv()
	env.rows.seed(store.SheetNewsletter, [][]string{
		{"Data", "Email", "Nome", "Lingua", "Stato iscrizione"},
		{"2024-01-01", "a@x.com", "Anna", "it", "ISCRITTO"},
	})

	// mail-client link: GET with Accept: text/html
	req := httpReq("GET", "")
	req.QueryStringParameters = map[string]string{"email": "a@x.com"}
	req.Headers = map[string]string{"Accept": "text/html,application/xhtml+xml"}

	resp, err := env.deps.Unsubscribe(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Headers["content-type"], "text/html")
	assert.Contains(t, resp.Body, "a@x.com")
	assert.Equal(t, "DISISCRITTO", env.rows.tabs[store.SheetNewsletter][1][4])

	// programmatic POST gets JSON
	resp, err = env.deps.Unsubscribe(context.Background(), httpReq("POST", `{"email":"a@x.com"}`))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Headers["content-type"], "application/json")
}

func TestUnsubscribeRejectsBadEmail(t *testing.T) {
	env := newTestEnv()

	req := httpReq("GET", "")
	req.QueryStringParameters = map[string]string{"email": "nope"}
	resp, err := env.deps.Unsubscribe(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestValidateCode(t *testing.T) {
	env := newTestEnv()

	resp, err := env.deps.ValidateCode(context.Background(), httpReq("POST", `{"code":"welcome10"}`))
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.Equal(t, true, out["valid"])
	assert.Equal(t, 0.10, out["rate"])

	resp, err = env.deps.ValidateCode(context.Background(), httpReq("POST", `{"code":"NOPE"}`))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.Equal(t, false, out["valid"])
}

func TestTrackRedirects(t *testing.T) {
	env := newTestEnv()

	req := httpReq("GET", "")
	req.QueryStringParameters = map[string]string{"dest": "guida_it", "email": "a@x.com", "lang": "it"}
	req.Headers = map[string]string{"User-Agent": "test-agent"}

	resp, err := env.deps.Track(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, trackDestinations["guida_it"], resp.Headers["location"])

	row := env.rows.tabs[store.SheetAnalytics][1]
	assert.Equal(t, "a@x.com", row[1])
	assert.Equal(t, "Download guida_it", row[2])
}

func TestTrackUnknownDestinationSkipsLogging(t *testing.T) {
	t.Setenv("SITE_URL", "https://ayo.test")
	env := newTestEnv()

	req := httpReq("GET", "")
	req.QueryStringParameters = map[string]string{"dest": "evil"}

	resp, err := env.deps.Track(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, "https://ayo.test", resp.Headers["location"])
	assert.Equal(t, 0, env.rows.rowCount())
}

func TestSendGuideUpdatesOrderRow(t *testing.T) {
	env := newTestEnv()
	env.rows.seed(store.SheetOrders, [][]string{
		{"ID ordine", "Member ID", "Email adottante"},
		{"s1", "AYO42", ""},
	})

	resp, err := env.deps.SendGuide(context.Background(),
		httpReq("POST", `{"memberId":"ayo42","email":"a@x.com","lang":"en"}`))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, "a@x.com", env.rows.tabs[store.SheetOrders][1][2])
	require.Len(t, env.resend.sent, 1)
	assert.Equal(t, []string{"a@x.com"}, env.resend.sent[0].To)
	assert.Contains(t, env.resend.registered, "a@x.com")
}

func TestUpdateEmailFlow(t *testing.T) {
	t.Setenv("INFO_EMAIL", "info@ayo.test")
	env := newTestEnv()
	env.rows.seed(store.SheetContacts, [][]string{
		store.ContactHeader,
		{"old@x.com", "Anna"},
	})

	resp, err := env.deps.UpdateEmail(context.Background(),
		httpReq("POST", `{"oldEmail":"old@x.com","newEmail":"new@x.com"}`))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, "new@x.com", env.rows.tabs[store.SheetContacts][1][0])
	assert.Equal(t, "UPDATE_EMAIL", env.rows.tabs[store.SheetEmailChanges][1][1])

	require.Len(t, env.brevo.sent, 2)
	assert.Equal(t, []string{"new@x.com"}, env.brevo.sent[0].To)
	assert.Equal(t, []string{"info@ayo.test"}, env.brevo.sent[1].To)
}

func TestUpdateEmailRejectsSameAndMissing(t *testing.T) {
	env := newTestEnv()

	resp, err := env.deps.UpdateEmail(context.Background(),
		httpReq("POST", `{"oldEmail":"a@x.com","newEmail":"A@X.com"}`))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = env.deps.UpdateEmail(context.Background(),
		httpReq("POST", `{"oldEmail":"missing@x.com","newEmail":"new@x.com"}`))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
