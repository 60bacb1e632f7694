package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
	"github.com/xavierca1/ligue-onboarding/internal/infra/queue"
)

const claimBatchSize = 50

type LeadClaimer interface {
	ClaimAbandonedCheckouts(ctx context.Context, olderThan time.Duration, limit int) ([]*entity.Lead, error)
}

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, payload queue.NotificationPayload) error
}

// AbandonedCheckoutWorker nudges leads that opened a checkout and never paid.
// It only stamps recovery_email_sent_at; Lead.status is left alone.
type AbandonedCheckoutWorker struct {
	leads        LeadClaimer
	publisher    NotificationPublisher
	logger       zerolog.Logger
	abandonAfter time.Duration
	tickInterval time.Duration
}

func NewAbandonedCheckoutWorker(
	leads LeadClaimer,
	publisher NotificationPublisher,
	logger zerolog.Logger,
	abandonAfter, tickInterval time.Duration,
) *AbandonedCheckoutWorker {
	return &AbandonedCheckoutWorker{
		leads:        leads,
		publisher:    publisher,
		logger:       logger.With().Str("component", "abandoned_checkout_worker").Logger(),
		abandonAfter: abandonAfter,
		tickInterval: tickInterval,
	}
}

func (w *AbandonedCheckoutWorker) Start(ctx context.Context) {
	w.logger.Info().Dur("abandon_after", w.abandonAfter).Msg("abandoned checkout worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("abandoned checkout worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce claims one batch and returns how many recovery notifications were queued.
func (w *AbandonedCheckoutWorker) RunOnce(ctx context.Context) int {
	leads, err := w.leads.ClaimAbandonedCheckouts(ctx, w.abandonAfter, claimBatchSize)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to claim abandoned checkouts")
		return 0
	}

	queued := 0
	for _, lead := range leads {
		err := w.publisher.PublishNotification(ctx, queue.NotificationPayload{
			Kind:   queue.KindCheckoutRecovery,
			LeadID: lead.ID,
			Email:  lead.Email,
			Name:   lead.Name,
			Origin: "ABANDONED_CHECKOUT_WORKER",
		})
		if err != nil {
			// o lead já foi marcado; não reenviamos para não spammar
			w.logger.Error().Err(err).Str("lead_id", lead.ID).Msg("failed to queue recovery notification")
			continue
		}
		queued++
	}

	if queued > 0 {
		w.logger.Info().Int("queued", queued).Msg("recovery notifications queued")
	}
	return queued
}
