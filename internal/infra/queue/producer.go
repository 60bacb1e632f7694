package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	KindPaymentConfirmation = "payment_confirmation"
	KindCheckoutRecovery    = "checkout_recovery"
)

type NotificationPayload struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	LeadID   string  `json:"lead_id"`
	Email    string  `json:"email"`
	Name     string  `json:"name,omitempty"`
	Amount   float64 `json:"amount,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Origin   string  `json:"origin"`
}

// Publisher is the slice of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch      Publisher
	Timeout time.Duration
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{
		Ch:      ch,
		Timeout: 5 * time.Second,
	}
}

func (p *RabbitMQProducer) PublishNotification(ctx context.Context, payload NotificationPayload) error {
	if payload.ID == "" {
		payload.ID = uuid.New().String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    payload.ID,
			Type:         payload.Kind,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}
