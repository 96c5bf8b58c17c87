package payments

import (
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// VerifyEvent checks the Stripe-Signature header (t={ts},v1={hmac}) against
// the endpoint secret and unmarshals the event envelope.
func VerifyEvent(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, secret)
}
