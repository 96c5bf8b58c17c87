package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"backend/internal/config"
	"backend/internal/payments"
	"backend/internal/store"
)

type checkoutRequest struct {
	KitID          string `json:"kitId"`
	Email          string `json:"email"`
	BuyerFirstName string `json:"buyerFirstName"`
	BuyerLastName  string `json:"buyerLastName"`
	CertName       string `json:"certName"`
	LabelName      string `json:"labelName"`
	Lang           string `json:"lang"`
	IsGift         bool   `json:"isGift"`
	GiftMessage    string `json:"giftMessage"`
	DiscountCode   string `json:"discountCode"`
	MemberID       string `json:"memberId"`
	CartID         string `json:"cartId"`
	FaxNumber      string `json:"fax_number"`
}

func (r *checkoutRequest) validate() string {
	required := []struct{ field, value string }{
		{"kitId", r.KitID},
		{"email", r.Email},
		{"buyerFirstName", r.BuyerFirstName},
		{"buyerLastName", r.BuyerLastName},
		{"certName", r.CertName},
		{"labelName", r.LabelName},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			return "Campo obbligatorio mancante: " + req.field
		}
	}
	if !isValidEmail(r.Email) {
		return "Email non valida"
	}
	return ""
}

// Checkout creates a Stripe checkout session for an adoption kit. Every
// business field rides along as session metadata so the webhook can rebuild
// the order without trusting client input again.
func (d *Deps) Checkout(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method != "POST" {
		return errResp(405, "Method Not Allowed")
	}

	var in checkoutRequest
	if err := parseBody(req, &in); err != nil {
		return errResp(400, "invalid JSON")
	}

	// Honeypot field: real users never fill it. Bots get a fake success and
	// no Stripe session, no sheet row.
	if strings.TrimSpace(in.FaxNumber) != "" {
		fmt.Println("checkout: honeypot tripped")
		return jsonResp(200, map[string]string{"message": "Success"})
	}

	isRecovery := false
	if in.CartID != "" {
		cart, ok, err := d.Store.CartByID(ctx, in.CartID)
		if err != nil {
			fmt.Printf("checkout: cart lookup failed: %v\n", err)
		}
		if ok {
			fmt.Printf("checkout: recovering cart %s\n", in.CartID)
			mergeCart(&in, cart)
			isRecovery = true
		}
	}
	if in.CartID == "" {
		in.CartID = "cart_" + uuid.NewString()
	}

	if msg := in.validate(); msg != "" {
		return errResp(400, msg)
	}

	kit, ok := config.KitByID(in.KitID)
	if !ok {
		return errResp(400, "Prodotto non valido")
	}

	lang := config.NormalizeLang(in.Lang)

	// A referral member id suppresses discount codes: the member already
	// gets their kickback, stacking a code on top would double-dip.
	var discount *config.Discount
	if len(strings.TrimSpace(in.MemberID)) <= 2 {
		if d, ok := config.ResolveDiscount(in.DiscountCode); ok {
			discount = &d
		}
	}
	amount := payments.AmountCents(kit, lang, discount)

	if !isRecovery {
		if err := d.Store.AppendCart(ctx, store.Cart{
			ID:           in.CartID,
			FirstName:    in.BuyerFirstName,
			LastName:     in.BuyerLastName,
			Email:        in.Email,
			Language:     lang,
			CertName:     in.CertName,
			LabelName:    in.LabelName,
			ProductName:  kit.Name,
			Gift:         in.IsGift,
			GiftMessage:  in.GiftMessage,
			DiscountCode: in.DiscountCode,
			MemberID:     in.MemberID,
			Price:        fmt.Sprintf("%.2f", float64(amount)/100),
		}); err != nil {
			fmt.Printf("checkout: cart log failed: %v\n", err)
		}
	}

	if err := payments.InitStripe(ctx); err != nil {
		return errResp(500, "payment provider not configured")
	}

	isGift := "NO"
	if in.IsGift {
		isGift = "YES"
	}
	s, err := payments.CreateSession(ctx, payments.SessionInput{
		Kit:         kit,
		Lang:        lang,
		AmountCents: amount,
		BuyerEmail:  in.Email,
		CertName:    in.CertName,
		CartID:      in.CartID,
		MemberID:    in.MemberID,
		Metadata: map[string]string{
			"cart_id":          in.CartID,
			"kit_id":           kit.ID,
			"lang":             lang,
			"buyer_first_name": in.BuyerFirstName,
			"buyer_last_name":  in.BuyerLastName,
			"buyer_name":       in.BuyerFirstName + " " + in.BuyerLastName,
			"buyer_email":      in.Email,
			"cert_name":        in.CertName,
			"label_name":       in.LabelName,
			"is_gift":          isGift,
			"gift_message":     in.GiftMessage,
			"referral_id":      in.MemberID,
			"discount_code":    in.DiscountCode,
		},
	})
	if err != nil {
		fmt.Printf("checkout: session create failed: %v\n", err)
		return errResp(500, "Errore durante la creazione del checkout")
	}

	return jsonResp(200, map[string]string{"id": s.ID, "url": s.URL})
}

// mergeCart fills request fields the recovery link didn't carry. Values the
// client re-sent win over the stored attempt.
func mergeCart(in *checkoutRequest, c store.Cart) {
	if in.Email == "" {
		in.Email = c.Email
	}
	if in.BuyerFirstName == "" {
		in.BuyerFirstName = c.FirstName
	}
	if in.BuyerLastName == "" {
		in.BuyerLastName = c.LastName
	}
	if in.CertName == "" {
		in.CertName = c.CertName
	}
	if in.LabelName == "" {
		in.LabelName = c.LabelName
	}
	if in.Lang == "" {
		in.Lang = c.Language
	}
	if in.DiscountCode == "" {
		in.DiscountCode = c.DiscountCode
	}
	if in.MemberID == "" {
		in.MemberID = c.MemberID
	}
	if !in.IsGift {
		in.IsGift = c.Gift
	}
	if in.GiftMessage == "" {
		in.GiftMessage = c.GiftMessage
	}
}
