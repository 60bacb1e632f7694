package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
	"github.com/xavierca1/ligue-onboarding/internal/infra/queue"
)

const (
	OutcomeApplied   = "applied"
	OutcomeDuplicate = "already_applied"
	OutcomeIgnored   = "ignored"
	OutcomeNoLead    = "lead_not_found"
	OutcomeFailed    = "failed"
)

type ProcessWebhookUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Queue    QueueProducerInterface
	Logger   EventLogger
	Now      func() time.Time
}

func NewProcessWebhookUseCase(
	leadRepo entity.LeadRepositoryInterface,
	queue QueueProducerInterface,
	logger EventLogger,
) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		LeadRepo: leadRepo,
		Queue:    queue,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Execute applies a verified gateway event. It never returns an error: the
// callback is acknowledged once the signature is valid, and failures surface
// only through the event log. The returned outcome is for metrics.
func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, event entity.PaymentEvent) string {
	outcome, err := uc.apply(ctx, event)
	if err != nil {
		uc.Logger.LogWebhookError(ctx, event, err)
		return OutcomeFailed
	}
	uc.Logger.LogWebhookEvent(ctx, event, outcome)
	return outcome
}

func (uc *ProcessWebhookUseCase) apply(ctx context.Context, event entity.PaymentEvent) (string, error) {
	switch event.Kind {
	case entity.PaymentSucceeded, entity.CheckoutCompleted:
		return uc.markPaid(ctx, event)
	case entity.PaymentFailed:
		return uc.markFailed(ctx, event)
	default:
		return OutcomeIgnored, nil
	}
}

func (uc *ProcessWebhookUseCase) markPaid(ctx context.Context, event entity.PaymentEvent) (string, error) {
	lead, err := uc.resolveLead(ctx, event)
	if err != nil {
		return "", err
	}
	if lead == nil {
		return OutcomeNoLead, nil
	}

	amount := float64(event.AmountMinor) / 100
	applied, err := uc.LeadRepo.MarkPaid(ctx, entity.PaymentResult{
		LeadID:          lead.ID,
		PaymentIntentID: event.PaymentIntentID,
		AmountPaid:      amount,
		ProcessedAt:     uc.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("mark lead %s paid: %w", lead.ID, err)
	}
	if !applied {
		return OutcomeDuplicate, nil
	}

	uc.handoffConfirmation(ctx, lead, event, amount)
	return OutcomeApplied, nil
}

func (uc *ProcessWebhookUseCase) markFailed(ctx context.Context, event entity.PaymentEvent) (string, error) {
	lead, err := uc.resolveLead(ctx, event)
	if err != nil {
		return "", err
	}
	if lead == nil {
		return OutcomeNoLead, nil
	}

	applied, err := uc.LeadRepo.MarkPaymentFailed(ctx, lead.ID, event.PaymentIntentID)
	if err != nil {
		return "", fmt.Errorf("mark lead %s payment_failed: %w", lead.ID, err)
	}
	if !applied {
		return OutcomeDuplicate, nil
	}
	return OutcomeApplied, nil
}

// resolveLead prefers the explicit leadId from metadata, then the checkout
// session, then the email. A nil lead with nil error means nothing matched.
func (uc *ProcessWebhookUseCase) resolveLead(ctx context.Context, event entity.PaymentEvent) (*entity.Lead, error) {
	if event.LeadID != "" {
		return notFoundAsNil(uc.LeadRepo.FindByID(ctx, event.LeadID))
	}
	if event.SessionID != "" {
		lead, err := notFoundAsNil(uc.LeadRepo.FindBySessionID(ctx, event.SessionID))
		if err != nil || lead != nil {
			return lead, err
		}
	}
	if email := NormalizeEmail(event.Email); email != "" {
		return notFoundAsNil(uc.LeadRepo.FindByEmail(ctx, email))
	}
	return nil, nil
}

func notFoundAsNil(lead *entity.Lead, err error) (*entity.Lead, error) {
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// handoffConfirmation only attempts the publish; delivery is the worker's job.
func (uc *ProcessWebhookUseCase) handoffConfirmation(ctx context.Context, lead *entity.Lead, event entity.PaymentEvent, amount float64) {
	if uc.Queue == nil {
		return
	}

	name := lead.Name
	if name == "" {
		name = event.Name
	}

	err := uc.Queue.PublishNotification(ctx, queue.NotificationPayload{
		Kind:     queue.KindPaymentConfirmation,
		LeadID:   lead.ID,
		Email:    lead.Email,
		Name:     name,
		Amount:   amount,
		Currency: event.Currency,
		Origin:   "WEBHOOK_" + event.GatewayType,
	})
	uc.Logger.LogNotificationHandoff(ctx, queue.KindPaymentConfirmation, lead.Email, err)
}
