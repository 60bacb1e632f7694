package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
	"github.com/xavierca1/ligue-onboarding/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-onboarding/internal/infra/integration/stripe"
)

const maxWebhookBytes = 1 << 20

type EventParser interface {
	ParseEvent(payload []byte, signature string) (entity.PaymentEvent, error)
}

type WebhookProcessor interface {
	Execute(ctx context.Context, event entity.PaymentEvent) string
}

type WebhookHandler struct {
	Parser    EventParser
	Processor WebhookProcessor
}

func NewWebhookHandler(parser EventParser, processor WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{
		Parser:    parser,
		Processor: processor,
	}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	// A assinatura é calculada sobre o corpo cru, nada de decodificar antes
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		middleware.RecordWebhookEvent("unknown", "rejected")
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Unable to read request body.", nil)
		return
	}

	event, err := h.Parser.ParseEvent(payload, r.Header.Get(stripe.SignatureHeader))
	if errors.Is(err, stripe.ErrInvalidSignature) {
		middleware.RecordWebhookEvent("unknown", "rejected")
		log.Warn().Err(err).Msg("webhook signature rejected")
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_SIGNATURE", "Invalid webhook signature.", nil)
		return
	}
	if err != nil {
		// Assinatura válida mas objeto ilegível: reenviar não vai ajudar
		middleware.RecordWebhookEvent(event.GatewayType, "undecodable")
		log.Error().Err(err).Str("event_id", event.ID).Str("event_type", event.GatewayType).Msg("webhook payload could not be decoded")
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	outcome := h.Processor.Execute(context.WithoutCancel(r.Context()), event)
	middleware.RecordWebhookEvent(event.GatewayType, outcome)

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
