package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
	"github.com/xavierca1/ligue-onboarding/internal/infra/integration/stripe"
	"github.com/xavierca1/ligue-onboarding/internal/infra/queue"
)

// EventLogger is the single structured telemetry sink. Implementations must never emit raw emails.
type EventLogger interface {
	LogValidationAttempt(ctx context.Context, email string, result EmailValidationResult, duration time.Duration, meta map[string]string)
	LogDuplicateClientDetection(ctx context.Context, email, clientID string, meta map[string]string)
	LogLeadConversion(ctx context.Context, email, leadID string, meta map[string]string)
	LogDatabaseError(ctx context.Context, operation, email string, err error)
	LogValidationError(ctx context.Context, email, reason string)
	LogPerformanceWarning(ctx context.Context, operation string, duration time.Duration, meta map[string]string)
	LogPerformanceMetrics(ctx context.Context, operation string, duration time.Duration, meta map[string]string)
	LogGracefulDegradation(ctx context.Context, operation, email, decision string, err error)
	LogWebhookEvent(ctx context.Context, event entity.PaymentEvent, outcome string)
	LogWebhookError(ctx context.Context, event entity.PaymentEvent, err error)
	LogNotificationHandoff(ctx context.Context, kind, email string, err error)
}

type PaymentGateway interface {
	FindCustomerByEmail(ctx context.Context, email string) (customerID string, found bool, err error)
	CreateCustomer(ctx context.Context, input stripe.CreateCustomerInput) (string, error)
	CreateCheckoutSession(ctx context.Context, config stripe.SessionConfig) (*stripe.CheckoutSession, error)
}

type QueueProducerInterface interface {
	PublishNotification(ctx context.Context, payload queue.NotificationPayload) error
}

type EmailValidator interface {
	ValidateEmail(ctx context.Context, rawEmail string, meta map[string]string) (*EmailValidationResult, error)
}

type EmailValidationResult struct {
	IsValid        bool   `json:"isValid"`
	ExistsAsClient bool   `json:"existsAsClient"`
	ExistsAsLead   bool   `json:"existsAsLead"`
	ClientID       string `json:"clientId,omitempty"`
	LeadID         string `json:"leadId,omitempty"`
}

type CheckoutInput struct {
	Email    string `json:"email"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type CheckoutOutput struct {
	URL       string `json:"url"`
	SessionID string `json:"-"`
}

type CaptureLeadInput struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

type VerifiedPayment struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	TierName    string    `json:"tier_name"`
	AmountTotal float64   `json:"amount_total"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

type VerifyPaymentOutput struct {
	Verified bool             `json:"verified"`
	Payment  *VerifiedPayment `json:"payment,omitempty"`
	Message  string           `json:"message,omitempty"`
}
