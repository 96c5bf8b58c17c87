package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"backend/internal/config"
	"backend/internal/db"
	"backend/internal/email"
	"backend/internal/store"
)

type claimRequest struct {
	BuyerEmail     string `json:"buyerEmail"`
	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName"`
	OrderID        string `json:"orderId"`
	Shipping       struct {
		Address struct {
			Line1      string `json:"line1"`
			Line2      string `json:"line2"`
			City       string `json:"city"`
			PostalCode string `json:"postal_code"`
			Country    string `json:"country"`
		} `json:"address"`
	} `json:"shipping"`
	Lang string `json:"lang"`
}

// ClaimGift links a gift recipient to the order that was bought for them.
// Exactly one candidate order → automatic link; zero or several → the claim
// parks in the pending tab for a human to pair. Either way the recipient
// lands in the contact archive and the change log records the attempt.
func (d *Deps) ClaimGift(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method != "POST" {
		return errResp(405, "Method Not Allowed")
	}

	var in claimRequest
	if err := parseBody(req, &in); err != nil {
		return errResp(400, "invalid JSON")
	}

	buyerEmail := strings.TrimSpace(in.BuyerEmail)
	recipientEmail := strings.TrimSpace(in.RecipientEmail)
	recipientName := strings.TrimSpace(in.RecipientName)
	addr := store.Address{
		Line1:      strings.TrimSpace(in.Shipping.Address.Line1),
		Line2:      strings.TrimSpace(in.Shipping.Address.Line2),
		City:       strings.TrimSpace(in.Shipping.Address.City),
		PostalCode: strings.TrimSpace(in.Shipping.Address.PostalCode),
		Country:    strings.TrimSpace(in.Shipping.Address.Country),
	}

	if buyerEmail == "" || recipientEmail == "" || recipientName == "" ||
		addr.Line1 == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return errResp(400, "Campi obbligatori mancanti")
	}

	orders, err := d.Store.Orders(ctx)
	if err != nil {
		fmt.Printf("claim: orders read failed: %v\n", err)
		return errResp(500, "Server error")
	}

	logClaim := func(note string) {
		if err := d.Store.LogEmailChange(ctx, "CLAIM_GIFT", buyerEmail, recipientEmail, "Club", note); err != nil {
			fmt.Printf("claim: change log failed: %v\n", err)
		}
	}

	// An explicit order id from the claim form wins over matching.
	var target store.Order
	found := false
	if in.OrderID != "" {
		target, found = store.OrderByID(orders, strings.TrimSpace(in.OrderID))
	}

	candidates := store.ClaimCandidates(orders, buyerEmail)
	if !found && len(candidates) == 1 {
		target, found = candidates[0], true
	}

	if found {
		acquired, err := db.AcquireClaimLock(ctx, d.DDB, target.ID, recipientEmail)
		if err != nil {
			fmt.Printf("claim: lock acquire failed: %v\n", err)
			return errResp(500, "Server error")
		}
		if acquired {
			if err := d.Store.LinkAdopter(ctx, target, recipientEmail, addr); err != nil {
				fmt.Printf("claim: link failed: %v\n", err)
				return errResp(500, "Server error")
			}
			d.claimSideEffects(ctx, recipientEmail, recipientName, in.Lang, addr)

			subject, html := email.ClaimConfirmed(recipientName, recipientEmail)
			if err := d.Brevo.Send(ctx, []string{recipientEmail}, subject, html, ""); err != nil {
				fmt.Printf("claim: confirmation email failed: %v\n", err)
			}
			if info := config.InfoEmail(); info != "" {
				subject, html := email.ClaimLinkedInternal(buyerEmail, recipientEmail, recipientName, shipLine(addr))
				if err := d.Brevo.Send(ctx, []string{info}, subject, html, ""); err != nil {
					fmt.Printf("claim: internal notice failed: %v\n", err)
				}
			}

			logClaim("linked: single order match")
			return jsonResp(200, map[string]any{"ok": true, "linked": true, "pending": false})
		}
		// Someone linked this order between our read and our write; fall
		// through to pending so a human untangles it.
		fmt.Printf("claim: lock on %s already held\n", target.ID)
	}

	summaries := store.SummarizeCandidates(candidates)
	if err := d.Store.AppendPendingClaim(ctx, buyerEmail, recipientEmail, recipientName, addr, summaries); err != nil {
		fmt.Printf("claim: pending append failed: %v\n", err)
		return errResp(500, "Server error")
	}
	d.claimSideEffects(ctx, recipientEmail, recipientName, in.Lang, addr)

	if info := config.InfoEmail(); info != "" {
		subject, html := email.ClaimPendingInternal(buyerEmail, recipientEmail, recipientName, shipLine(addr), pendingCandidates(summaries))
		if err := d.Brevo.Send(ctx, []string{info}, subject, html, ""); err != nil {
			fmt.Printf("claim: pending notice failed: %v\n", err)
		}
	}
	subject, html := email.ClaimHolding(recipientName, config.NormalizeLang(in.Lang))
	if err := d.Brevo.Send(ctx, []string{recipientEmail}, subject, html, ""); err != nil {
		fmt.Printf("claim: holding email failed: %v\n", err)
	}

	logClaim(fmt.Sprintf("pending: %d candidates", len(summaries)))
	return jsonResp(200, map[string]any{"ok": true, "linked": false, "pending": true})
}

// claimSideEffects is shared by both branches: archive the recipient and put
// them on the mailing lists. All best-effort.
func (d *Deps) claimSideEffects(ctx context.Context, recipientEmail, recipientName, lang string, addr store.Address) {
	if err := d.Store.UpsertContact(ctx, store.ContactUpdate{
		Email:    recipientEmail,
		Name:     recipientName,
		Language: config.NormalizeLang(lang),
		Role:     store.RoleGiftAdopter,
		Address:  &addr,
	}); err != nil {
		fmt.Printf("claim: contact upsert failed: %v\n", err)
	}
	if err := d.Brevo.UpsertContact(ctx, recipientEmail, recipientName, config.NormalizeLang(lang), 0); err != nil {
		fmt.Printf("claim: brevo upsert failed: %v\n", err)
	}
	if err := d.Resend.RegisterContact(ctx, recipientEmail, recipientName); err != nil {
		fmt.Printf("claim: audience register failed: %v\n", err)
	}
}

func shipLine(a store.Address) string {
	line := a.Line1
	if a.Line2 != "" {
		line += ", " + a.Line2
	}
	return fmt.Sprintf("%s, %s %s, %s", line, a.PostalCode, a.City, a.Country)
}

func pendingCandidates(in []store.CandidateSummary) []email.Candidate {
	out := make([]email.Candidate, 0, len(in))
	for _, c := range in {
		out = append(out, email.Candidate{ID: c.ID, Date: c.Date, Adopter: c.AdopterEmail})
	}
	return out
}
