package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
	"github.com/xavierca1/ligue-onboarding/internal/infra/integration/stripe"
)

const (
	opDuplicateCheck  = "DUPLICATE_CHECK"
	opCustomerResolve = "CUSTOMER_RESOLUTION"
	opLeadLink        = "LEAD_LINK"

	decisionProceedCheckout = "proceed_with_checkout"
	decisionEmailOnly       = "fallback_to_customer_email"
	decisionSkipLeadLink    = "continue_without_lead_link"
)

type CheckoutSettings struct {
	PriceID        string
	PublicBaseURL  string
	BillingCountry string
}

type StartCheckoutUseCase struct {
	Validator EmailValidator
	Gateway   PaymentGateway
	LeadRepo  entity.LeadRepositoryInterface
	Logger    EventLogger
	Settings  CheckoutSettings
}

func NewStartCheckoutUseCase(
	validator EmailValidator,
	gateway PaymentGateway,
	leadRepo entity.LeadRepositoryInterface,
	logger EventLogger,
	settings CheckoutSettings,
) *StartCheckoutUseCase {
	settings.PublicBaseURL = strings.TrimSuffix(settings.PublicBaseURL, "/")
	return &StartCheckoutUseCase{
		Validator: validator,
		Gateway:   gateway,
		LeadRepo:  leadRepo,
		Logger:    logger,
		Settings:  settings,
	}
}

// Execute returns a *DomainError for invalid or already-registered emails. Any
// other error must be reported to the caller as a generic server error.
func (uc *StartCheckoutUseCase) Execute(ctx context.Context, input CheckoutInput, meta map[string]string) (*CheckoutOutput, error) {
	email := NormalizeEmail(input.Email)
	var leadID string

	// Campo presente mas em branco também passa pela validação
	if input.Email != "" {
		result, err := uc.Validator.ValidateEmail(ctx, input.Email, meta)
		switch {
		case err != nil:
			// Fail-open: a verificação de duplicidade não pode derrubar o cadastro
			uc.Logger.LogGracefulDegradation(ctx, opDuplicateCheck, email, decisionProceedCheckout, err)
		case !result.IsValid:
			uc.Logger.LogValidationError(ctx, input.Email, "invalid_format")
			return nil, newInvalidEmailError()
		case result.ExistsAsClient:
			return nil, newDuplicateClientError()
		default:
			leadID = result.LeadID
		}
	}

	config := stripe.SessionConfig{
		PriceID:    uc.Settings.PriceID,
		SuccessURL: fmt.Sprintf("%s/payment-success?session_id=%s", uc.Settings.PublicBaseURL, stripe.SessionIDTemplate),
		CancelURL:  fmt.Sprintf("%s/register?canceled=true&session_id=%s", uc.Settings.PublicBaseURL, stripe.SessionIDTemplate),
		Metadata:   buildMetadata(input, email, leadID),
	}

	if email != "" {
		config.Customer, config.CustomerEmail = uc.resolveCustomer(ctx, input, email)
	}

	if err := config.Validate(); err != nil {
		return nil, &TechnicalError{Code: CodeServerError, Message: "invalid checkout configuration", Err: err}
	}

	session, err := uc.Gateway.CreateCheckoutSession(ctx, config)
	if err != nil {
		return nil, &TechnicalError{Code: CodeServerError, Message: "failed to create checkout session", Err: err}
	}

	if email != "" {
		lead := &entity.Lead{
			Email:    email,
			Name:     strings.TrimSpace(input.Name),
			Phone:    strings.TrimSpace(input.Phone),
			Location: strings.TrimSpace(input.Location),
		}
		if err := uc.LeadRepo.LinkCheckoutSession(ctx, lead, session.ID); err != nil {
			uc.Logger.LogGracefulDegradation(ctx, opLeadLink, email, decisionSkipLeadLink, err)
		}
	}

	return &CheckoutOutput{URL: session.URL, SessionID: session.ID}, nil
}

// resolveCustomer reuses or creates the gateway customer. On any gateway error it
// falls back to handing the bare email to the session.
func (uc *StartCheckoutUseCase) resolveCustomer(ctx context.Context, input CheckoutInput, email string) (customer, customerEmail string) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", email
	}

	customerID, found, err := uc.Gateway.FindCustomerByEmail(ctx, email)
	if err != nil {
		uc.Logger.LogGracefulDegradation(ctx, opCustomerResolve, email, decisionEmailOnly, err)
		return "", email
	}
	if found {
		return customerID, ""
	}

	customerID, err = uc.Gateway.CreateCustomer(ctx, stripe.CreateCustomerInput{
		Email:          email,
		Name:           name,
		Phone:          strings.TrimSpace(input.Phone),
		BillingCountry: uc.Settings.BillingCountry,
	})
	if err != nil {
		uc.Logger.LogGracefulDegradation(ctx, opCustomerResolve, email, decisionEmailOnly, err)
		return "", email
	}
	if customerID == "" {
		uc.Logger.LogGracefulDegradation(ctx, opCustomerResolve, email, decisionEmailOnly, errors.New("gateway returned empty customer id"))
		return "", email
	}
	return customerID, ""
}

func buildMetadata(input CheckoutInput, email, leadID string) map[string]string {
	metadata := map[string]string{}
	add := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			metadata[key] = value
		}
	}
	add("userId", input.UserID)
	add("email", email)
	add("name", input.Name)
	add("phone", input.Phone)
	add("location", input.Location)
	add("leadId", leadID)
	return metadata
}
