package entity

import "time"

// PaymentEventKind is the gateway event after it was verified and mapped to what this service cares about.
type PaymentEventKind string

const (
	PaymentSucceeded  PaymentEventKind = "PAYMENT_SUCCEEDED"
	PaymentFailed     PaymentEventKind = "PAYMENT_FAILED"
	CheckoutCompleted PaymentEventKind = "CHECKOUT_COMPLETED"
	PaymentIgnored    PaymentEventKind = "IGNORED"
)

type PaymentEvent struct {
	ID              string
	Kind            PaymentEventKind
	GatewayType     string
	PaymentIntentID string
	SessionID       string
	AmountMinor     int64
	Currency        string
	LeadID          string
	Email           string
	Name            string
	CreatedAt       time.Time
}
