package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
)

const SignatureHeader = "Stripe-Signature"

var ErrInvalidSignature = errors.New("invalid webhook signature")

type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// ParseEvent verifies the signature over the raw payload before decoding anything
// and maps the gateway event into an entity.PaymentEvent.
func (v *WebhookVerifier) ParseEvent(payload []byte, signature string) (entity.PaymentEvent, error) {
	if v.secret == "" || strings.TrimSpace(signature) == "" {
		return entity.PaymentEvent{}, ErrInvalidSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return entity.PaymentEvent{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := entity.PaymentEvent{
		ID:          event.ID,
		Kind:        entity.PaymentIgnored,
		GatewayType: string(event.Type),
		CreatedAt:   time.Unix(event.Created, 0).UTC(),
	}

	switch event.Type {
	case stripego.EventTypePaymentIntentSucceeded, stripego.EventTypePaymentIntentPaymentFailed:
		var pi stripego.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return out, fmt.Errorf("decode payment_intent: %w", err)
		}
		out.Kind = entity.PaymentSucceeded
		if event.Type == stripego.EventTypePaymentIntentPaymentFailed {
			out.Kind = entity.PaymentFailed
		}
		out.PaymentIntentID = pi.ID
		out.AmountMinor = pi.Amount
		out.Currency = string(pi.Currency)
		out.LeadID = pi.Metadata["leadId"]
		out.Email = pi.Metadata["email"]
		out.Name = pi.Metadata["name"]
		if out.Email == "" {
			out.Email = pi.ReceiptEmail
		}

	case stripego.EventTypeCheckoutSessionCompleted:
		var session stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return out, fmt.Errorf("decode checkout.session: %w", err)
		}
		out.Kind = entity.CheckoutCompleted
		out.SessionID = session.ID
		out.AmountMinor = session.AmountTotal
		out.Currency = string(session.Currency)
		out.LeadID = session.Metadata["leadId"]
		out.Email = session.Metadata["email"]
		out.Name = session.Metadata["name"]
		if out.Email == "" {
			out.Email = session.CustomerEmail
		}
		if out.Email == "" && session.CustomerDetails != nil {
			out.Email = session.CustomerDetails.Email
		}
		if session.PaymentIntent != nil {
			out.PaymentIntentID = session.PaymentIntent.ID
		}
	}

	return out, nil
}
