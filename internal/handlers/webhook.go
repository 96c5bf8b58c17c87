package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stripe/stripe-go/v79"

	"backend/internal/config"
	"backend/internal/db"
	"backend/internal/email"
	"backend/internal/payments"
	"backend/internal/store"
)

// StripeWebhook turns a completed checkout session into an order row plus
// contact and email side effects. The order row is the one primary effect:
// if it can't be written the event is failed so Stripe retries. Everything
// after it is best-effort and isolated.
func (d *Deps) StripeWebhook(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	secret := config.Secret(ctx, "STRIPE_WEBHOOK_SECRET")
	event, err := payments.VerifyEvent(rawBody(req), header(req, "stripe-signature"), secret)
	if err != nil {
		fmt.Printf("webhook: signature verify failed: %v\n", err)
		return errResp(400, "bad signature")
	}

	if event.Type != "checkout.session.completed" {
		return jsonResp(200, map[string]string{"status": "ignored"})
	}

	// Stripe redelivers on timeouts; the conditional put makes replays ack
	// without re-writing the order. The claim must be released on every
	// failure before the order row lands, or the retry Stripe sends after
	// our 500 would be acked as a duplicate and the paid order lost.
	dup, err := db.ClaimEvent(ctx, d.DDB, event.ID, string(event.Type))
	if err != nil {
		fmt.Printf("webhook: dedupe check failed: %v\n", err)
	}
	if dup {
		return jsonResp(200, map[string]string{"status": "duplicate"})
	}
	releaseClaim := func() {
		if err := db.ReleaseEvent(ctx, d.DDB, event.ID); err != nil {
			fmt.Printf("webhook: dedupe release failed: %v\n", err)
		}
	}

	var evSession stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &evSession); err != nil {
		releaseClaim()
		return errResp(400, "bad event payload")
	}

	if err := payments.InitStripe(ctx); err != nil {
		releaseClaim()
		return errResp(500, "payment provider not configured")
	}

	// Re-fetch so customer and shipping come from Stripe, not the raw event.
	session, err := payments.FetchSession(ctx, evSession.ID)
	if err != nil {
		fmt.Printf("webhook: session fetch failed: %v\n", err)
		releaseClaim()
		return errResp(500, "session fetch failed")
	}

	meta := session.Metadata
	if meta == nil {
		meta = map[string]string{}
	}

	buyerEmail := meta["buyer_email"]
	buyerName := meta["buyer_name"]
	var addr store.Address
	if session.CustomerDetails != nil {
		if session.CustomerDetails.Email != "" {
			buyerEmail = session.CustomerDetails.Email
		}
		if session.CustomerDetails.Name != "" {
			buyerName = session.CustomerDetails.Name
		}
		if a := session.CustomerDetails.Address; a != nil {
			addr = store.Address{
				Line1:      a.Line1,
				Line2:      a.Line2,
				City:       a.City,
				PostalCode: a.PostalCode,
				Country:    a.Country,
			}
		}
	}

	lang := config.NormalizeLang(meta["lang"])
	amountEUR := float64(session.AmountTotal) / 100
	isGift := strings.HasPrefix(strings.ToLower(meta["is_gift"]), "y")

	// Personal orders seed the adopter columns with the buyer; gift orders
	// leave the adopter email for the claim reconciler.
	adopterEmail := meta["recipient_email"]
	if adopterEmail == "" && !isGift {
		adopterEmail = buyerEmail
	}
	adopterName := meta["cert_name"]
	if adopterName == "" {
		adopterName = buyerName
	}

	product := meta["label_name"]
	if kit, ok := config.KitByID(meta["kit_id"]); ok {
		product = kit.Name
	}

	order := store.Order{
		ID:           session.ID,
		Date:         time.Now().UTC().Format(time.RFC3339),
		BuyerEmail:   buyerEmail,
		BuyerName:    buyerName,
		AdopterEmail: adopterEmail,
		AdopterName:  adopterName,
		Gift:         isGift,
		Product:      product,
		Message:      meta["gift_message"],
		Shipping:     addr,
		DiscountCode: meta["discount_code"],
		AmountPaid:   fmt.Sprintf("%.2f", amountEUR),
		Language:     lang,
	}
	if err := d.Store.AppendOrder(ctx, order); err != nil {
		fmt.Printf("webhook: order append failed: %v\n", err)
		releaseClaim()
		d.Alerts.OrderRecordFailure(ctx, session.ID, err)
		return errResp(500, "order write failed")
	}

	// Side effects below must not cascade: a mail outage is not a lost order.
	if buyerEmail != "" {
		role := store.RolePersonalBuyer
		if isGift {
			role = store.RoleGiftBuyer
		}
		if err := d.Store.UpsertContact(ctx, store.ContactUpdate{
			Email:      buyerEmail,
			Name:       buyerName,
			Language:   lang,
			Role:       role,
			OrderedNow: true,
			Address:    &addr,
		}); err != nil {
			fmt.Printf("webhook: buyer contact upsert failed: %v\n", err)
		}
	}
	if isGift && meta["recipient_email"] != "" {
		if err := d.Store.UpsertContact(ctx, store.ContactUpdate{
			Email:    meta["recipient_email"],
			Language: lang,
			Role:     store.RoleGiftAdopter,
		}); err != nil {
			fmt.Printf("webhook: recipient contact upsert failed: %v\n", err)
		}
	}

	if buyerEmail != "" {
		listID, _ := strconv.ParseInt(config.BrevoClientListID(), 10, 64)
		if err := d.Brevo.UpsertContact(ctx, buyerEmail, buyerName, lang, listID); err != nil {
			fmt.Printf("webhook: brevo upsert failed: %v\n", err)
		}
	}

	if info := config.InfoEmail(); info != "" {
		subject, html := email.OrderInternalNotice(session.ID, buyerName, buyerEmail, amountEUR)
		if err := d.Brevo.Send(ctx, []string{info}, subject, html, ""); err != nil {
			fmt.Printf("webhook: internal notice failed: %v\n", err)
		}
	}

	if tmpl, _ := strconv.ParseInt(config.BrevoOrderTemplateID(), 10, 64); tmpl > 0 && buyerEmail != "" {
		err := d.Brevo.SendTemplate(ctx, buyerEmail, buyerName, tmpl, map[string]any{
			"NAME":      buyerName,
			"ORDER_ID":  session.ID,
			"TOTAL_EUR": fmt.Sprintf("%.2f", amountEUR),
		})
		if err != nil {
			fmt.Printf("webhook: confirmation email failed: %v\n", err)
		}
	}

	return jsonResp(200, map[string]string{"status": "ok"})
}
