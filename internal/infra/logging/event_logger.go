package logging

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
	"github.com/xavierca1/ligue-onboarding/internal/usecase"
)

const (
	EventValidationAttempt   = "VALIDATION_ATTEMPT"
	EventDuplicateClient     = "DUPLICATE_CLIENT"
	EventLeadConversion      = "LEAD_CONVERSION"
	EventDatabaseError       = "DATABASE_ERROR"
	EventValidationError     = "VALIDATION_ERROR"
	EventPerformanceWarning  = "PERFORMANCE_WARNING"
	EventPerformanceMetrics  = "PERFORMANCE_METRICS"
	EventGracefulDegradation = "GRACEFUL_DEGRADATION"
	EventWebhook             = "WEBHOOK_EVENT"
	EventWebhookError        = "WEBHOOK_PROCESSING_ERROR"
	EventNotificationHandoff = "NOTIFICATION_HANDOFF"
)

const (
	MetricsThreshold = 100 * time.Millisecond
	WarningThreshold = time.Second
)

// EventLogger is the one telemetry sink for registration and payment events.
// Build it once in main and pass it down.
type EventLogger struct {
	log zerolog.Logger
}

var _ usecase.EventLogger = (*EventLogger)(nil)

func NewEventLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{log: logger.With().Str("component", "event_logger").Logger()}
}

func (l *EventLogger) LogValidationAttempt(ctx context.Context, email string, result usecase.EmailValidationResult, duration time.Duration, meta map[string]string) {
	l.event(ctx, l.log.Info(), EventValidationAttempt, email).
		Bool("is_valid", result.IsValid).
		Bool("exists_as_client", result.ExistsAsClient).
		Bool("exists_as_lead", result.ExistsAsLead).
		Dur("duration", duration).
		Fields(metaFields(meta)).
		Msg("email validation attempt")
}

// LogDuplicateClientDetection is a security signal: someone is registering an
// address that already belongs to a paying member.
func (l *EventLogger) LogDuplicateClientDetection(ctx context.Context, email, clientID string, meta map[string]string) {
	l.event(ctx, l.log.Warn(), EventDuplicateClient, email).
		Bool("security", true).
		Str("severity", "high").
		Str("client_id", clientID).
		Fields(metaFields(meta)).
		Msg("registration attempt for active client")
}

func (l *EventLogger) LogLeadConversion(ctx context.Context, email, leadID string, meta map[string]string) {
	l.event(ctx, l.log.Info(), EventLeadConversion, email).
		Str("lead_id", leadID).
		Fields(metaFields(meta)).
		Msg("returning lead re-entering checkout")
}

func (l *EventLogger) LogDatabaseError(ctx context.Context, operation, email string, err error) {
	var dsErr *entity.DatastoreError
	transient := false
	if errors.As(err, &dsErr) {
		transient = dsErr.Transient
	}
	l.event(ctx, l.log.Error(), EventDatabaseError, email).
		Str("operation", operation).
		Bool("transient", transient).
		Err(err).
		Msg("datastore failure")
}

func (l *EventLogger) LogValidationError(ctx context.Context, email, reason string) {
	l.event(ctx, l.log.Info(), EventValidationError, email).
		Str("reason", reason).
		Msg("email rejected")
}

func (l *EventLogger) LogPerformanceWarning(ctx context.Context, operation string, duration time.Duration, meta map[string]string) {
	l.withRequest(ctx, l.log.Warn()).
		Str("event", EventPerformanceWarning).
		Str("operation", operation).
		Dur("duration", duration).
		Dur("threshold", WarningThreshold).
		Fields(metaFields(meta)).
		Msg("slow operation")
}

// LogPerformanceMetrics drops anything at or under MetricsThreshold.
func (l *EventLogger) LogPerformanceMetrics(ctx context.Context, operation string, duration time.Duration, meta map[string]string) {
	if duration <= MetricsThreshold {
		return
	}
	l.withRequest(ctx, l.log.Info()).
		Str("event", EventPerformanceMetrics).
		Str("operation", operation).
		Dur("duration", duration).
		Fields(metaFields(meta)).
		Msg("operation timing")
}

func (l *EventLogger) LogGracefulDegradation(ctx context.Context, operation, email, decision string, err error) {
	l.event(ctx, l.log.Warn(), EventGracefulDegradation, email).
		Str("operation", operation).
		Str("decision", decision).
		Err(err).
		Msg("continuing after dependency failure")
}

func (l *EventLogger) LogWebhookEvent(ctx context.Context, event entity.PaymentEvent, outcome string) {
	l.event(ctx, l.log.Info(), EventWebhook, event.Email).
		Str("event_id", event.ID).
		Str("gateway_type", event.GatewayType).
		Str("kind", string(event.Kind)).
		Str("lead_id", event.LeadID).
		Str("outcome", outcome).
		Msg("webhook event processed")
}

func (l *EventLogger) LogWebhookError(ctx context.Context, event entity.PaymentEvent, err error) {
	l.event(ctx, l.log.Error(), EventWebhookError, event.Email).
		Bool("alert", true).
		Str("event_id", event.ID).
		Str("gateway_type", event.GatewayType).
		Str("lead_id", event.LeadID).
		Err(err).
		Msg("webhook event could not be applied")
}

func (l *EventLogger) LogNotificationHandoff(ctx context.Context, kind, email string, err error) {
	e := l.log.Info()
	if err != nil {
		e = l.log.Error().Err(err)
	}
	l.event(ctx, e, EventNotificationHandoff, email).
		Str("kind", kind).
		Bool("queued", err == nil).
		Msg("notification handoff")
}

// event stamps the common fields. The raw email never leaves this function.
func (l *EventLogger) event(ctx context.Context, e *zerolog.Event, name, email string) *zerolog.Event {
	return l.withRequest(ctx, e).
		Str("event", name).
		Str("email_hash", HashEmail(email))
}

func (l *EventLogger) withRequest(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	if ctx == nil {
		return e
	}
	if id, ok := hlog.IDFromCtx(ctx); ok {
		e = e.Str("request_id", id.String())
	}
	return e
}

func metaFields(meta map[string]string) map[string]any {
	fields := make(map[string]any, len(meta))
	for k, v := range meta {
		fields["meta_"+k] = v
	}
	return fields
}
