package stripe

import (
	"errors"
	"strings"
)

// Placeholder the gateway replaces with the real session id when redirecting.
const SessionIDTemplate = "{CHECKOUT_SESSION_ID}"

type CreateCustomerInput struct {
	Email          string
	Name           string
	Phone          string
	BillingCountry string
}

// SessionConfig describes a subscription checkout. Customer and CustomerEmail are
// mutually exclusive: a resolved gateway customer wins, the bare email is the fallback.
type SessionConfig struct {
	PriceID       string
	Customer      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

func (c SessionConfig) Validate() error {
	if strings.TrimSpace(c.PriceID) == "" {
		return errors.New("session config: price id is required")
	}
	if c.SuccessURL == "" || c.CancelURL == "" {
		return errors.New("session config: success and cancel urls are required")
	}
	if c.Customer != "" && c.CustomerEmail != "" {
		return errors.New("session config: customer and customer email are mutually exclusive")
	}
	return nil
}

type CheckoutSession struct {
	ID  string
	URL string
}
