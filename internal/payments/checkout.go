// Package payments talks to Stripe: checkout session creation for the
// storefront and event verification for the webhook.
package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"

	"backend/internal/config"
)

// paymentMethodSets is tried in order: some methods get rejected depending
// on account capabilities and currency, so a rejected superset falls back to
// progressively smaller sets instead of failing the checkout.
var paymentMethodSets = [][]string{
	{"card", "paypal", "klarna", "revolut_pay"},
	{"card", "paypal"},
	{"card"},
}

// SessionInput carries everything the webhook needs to reconstruct the
// order later; all business fields travel as session metadata.
type SessionInput struct {
	Kit         config.Kit
	Lang        string
	AmountCents int64
	BuyerEmail  string
	CertName    string
	CartID      string
	MemberID    string
	Metadata    map[string]string
}

// InitStripe sets the account key once per invocation.
func InitStripe(ctx context.Context) error {
	key := config.Secret(ctx, "STRIPE_SECRET_KEY")
	if key == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY not configured")
	}
	stripe.Key = key
	return nil
}

// CreateSession builds the checkout session, falling back through payment
// method sets on invalid-request rejections.
func CreateSession(ctx context.Context, in SessionInput) (*stripe.CheckoutSession, error) {
	countries := config.CountriesEU
	cancelBase := config.SiteURL()
	if in.Lang == "it" {
		countries = config.CountriesIT
		cancelBase += "/it"
	}

	var lastErr error
	for _, methods := range paymentMethodSets {
		params := &stripe.CheckoutSessionParams{
			PaymentMethodTypes: stripe.StringSlice(methods),
			CustomerEmail:      stripe.String(in.BuyerEmail),
			Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
			PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
				Enabled: stripe.Bool(true),
			},
			ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
				AllowedCountries: stripe.StringSlice(countries),
			},
			LineItems: []*stripe.CheckoutSessionLineItemParams{{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("eur"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(in.Kit.Name),
						Description: stripe.String("Adoption for: " + in.CertName),
					},
					UnitAmount: stripe.Int64(in.AmountCents),
				},
				Quantity: stripe.Int64(1),
			}},
			SuccessURL: stripe.String(fmt.Sprintf("%s/success.html?session_id={CHECKOUT_SESSION_ID}&amount=%.2f",
				config.SiteURL(), float64(in.AmountCents)/100)),
			CancelURL: stripe.String(fmt.Sprintf("%s/index.html?recover_cart=%s#adoption-kits",
				cancelBase, in.CartID)),
		}
		if in.MemberID != "" {
			params.ClientReferenceID = stripe.String(in.MemberID)
		}
		for k, v := range in.Metadata {
			params.AddMetadata(k, v)
		}

		s, err := session.New(params)
		if err == nil {
			return s, nil
		}
		lastErr = err

		var sErr *stripe.Error
		if !errors.As(err, &sErr) || sErr.Type != stripe.ErrorTypeInvalidRequest {
			return nil, err
		}
		fmt.Printf("checkout: methods %v rejected, falling back: %v\n", methods, err)
	}
	return nil, lastErr
}

// FetchSession re-fetches a completed session so customer and shipping
// details come from Stripe rather than the raw event payload.
func FetchSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("payment_intent")
	params.AddExpand("customer")
	return session.Get(id, params)
}
