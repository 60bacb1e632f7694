package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Notifier delivers a notification to the member (email today).
type Notifier interface {
	SendPaymentConfirmation(ctx context.Context, to, name string, amount float64, currency string) error
	SendCheckoutRecovery(ctx context.Context, to, name string) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier Notifier
	Logger   zerolog.Logger
}

func NewWorker(ch *amqp.Channel, notifier Notifier, logger zerolog.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger.With().Str("component", "notification_worker").Logger(),
	}
}

// Start consumes until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // ack manual
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info().Str("queue", queueName).Msg("worker waiting for notifications")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var payload NotificationPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		// Mensagem malformada vai direto pra DLQ
		w.Logger.Error().Err(err).Str("message_id", d.MessageId).Msg("invalid notification payload")
		d.Nack(false, false)
		return
	}

	if err := w.processMessage(ctx, payload); err != nil {
		w.Logger.Error().Err(err).Str("kind", payload.Kind).Str("lead_id", payload.LeadID).Msg("notification delivery failed")
		d.Nack(false, false)
		return
	}

	w.Logger.Info().Str("kind", payload.Kind).Str("lead_id", payload.LeadID).Msg("notification delivered")
	d.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, payload NotificationPayload) error {
	if payload.Email == "" {
		return fmt.Errorf("notification %s has no recipient", payload.ID)
	}

	switch payload.Kind {
	case KindPaymentConfirmation:
		return w.Notifier.SendPaymentConfirmation(ctx, payload.Email, payload.Name, payload.Amount, payload.Currency)
	case KindCheckoutRecovery:
		return w.Notifier.SendCheckoutRecovery(ctx, payload.Email, payload.Name)
	default:
		// Tipo desconhecido: só loga e dá ACK para não travar a fila
		w.Logger.Warn().Str("kind", payload.Kind).Msg("unknown notification kind")
		return nil
	}
}
