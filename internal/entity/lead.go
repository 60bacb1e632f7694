package entity

import (
	"context"
	"time"
)

// Lead status values. Status only moves forward: new -> checkout_started -> paid | payment_failed.
const (
	LeadStatusNew             = "new"
	LeadStatusCheckoutStarted = "checkout_started"
	LeadStatusPaid            = "paid"
	LeadStatusPaymentFailed   = "payment_failed"
)

type Lead struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"` // sempre normalizado
	Name                string     `json:"name,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	Location            string     `json:"location,omitempty"`
	Status              string     `json:"status"`
	ExternalSessionID   *string    `json:"external_session_id,omitempty"`
	PaymentIntentID     *string    `json:"payment_intent_id,omitempty"`
	AmountPaid          *float64   `json:"amount_paid,omitempty"`
	PaidAt              *time.Time `json:"paid_at,omitempty"`
	RecoveryEmailSentAt *time.Time `json:"recovery_email_sent_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsTerminal reports whether the lead reached the end of the payment lifecycle.
func (l *Lead) IsTerminal() bool {
	return l.Status == LeadStatusPaid || l.Status == LeadStatusPaymentFailed
}

// PaymentResult carries what a gateway event tells us about a lead's payment.
type PaymentResult struct {
	LeadID          string
	PaymentIntentID string
	AmountPaid      float64
	ProcessedAt     time.Time
}

type LeadRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindBySessionID(ctx context.Context, sessionID string) (*Lead, error)

	// Upsert creates the lead or refreshes its contact data, keyed by the unique email.
	Upsert(ctx context.Context, lead *Lead) error

	// LinkCheckoutSession records the gateway session on the lead row for email.
	LinkCheckoutSession(ctx context.Context, lead *Lead, sessionID string) error

	// MarkPaid returns applied=false when the lead was already paid.
	MarkPaid(ctx context.Context, result PaymentResult) (applied bool, err error)

	// MarkPaymentFailed never overwrites a paid lead.
	MarkPaymentFailed(ctx context.Context, leadID, paymentIntentID string) (applied bool, err error)

	// ClaimAbandonedCheckouts stamps recovery_email_sent_at and returns the claimed rows.
	ClaimAbandonedCheckouts(ctx context.Context, olderThan time.Duration, limit int) ([]*Lead, error)
}
