package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
	"github.com/xavierca1/ligue-onboarding/internal/infra/integration/stripe"
	"github.com/xavierca1/ligue-onboarding/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) lead(args mock.Arguments) (*entity.Lead, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	return m.lead(m.Called(ctx, email))
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	return m.lead(m.Called(ctx, id))
}

func (m *MockLeadRepository) FindBySessionID(ctx context.Context, sessionID string) (*entity.Lead, error) {
	return m.lead(m.Called(ctx, sessionID))
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) LinkCheckoutSession(ctx context.Context, lead *entity.Lead, sessionID string) error {
	args := m.Called(ctx, lead, sessionID)
	return args.Error(0)
}

func (m *MockLeadRepository) MarkPaid(ctx context.Context, result entity.PaymentResult) (bool, error) {
	args := m.Called(ctx, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) MarkPaymentFailed(ctx context.Context, leadID, paymentIntentID string) (bool, error) {
	args := m.Called(ctx, leadID, paymentIntentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) ClaimAbandonedCheckouts(ctx context.Context, olderThan time.Duration, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

// MockClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindActiveByEmail(ctx context.Context, email string) (*entity.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) FindVerified(ctx context.Context, sessionID, email string) (*entity.Client, error) {
	args := m.Called(ctx, sessionID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

// MockPaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) FindCustomerByEmail(ctx context.Context, email string) (string, bool, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockPaymentGateway) CreateCustomer(ctx context.Context, input stripe.CreateCustomerInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, config stripe.SessionConfig) (*stripe.CheckoutSession, error) {
	args := m.Called(ctx, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishNotification(ctx context.Context, payload queue.NotificationPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockEmailValidator
type MockEmailValidator struct {
	mock.Mock
}

func (m *MockEmailValidator) ValidateEmail(ctx context.Context, rawEmail string, meta map[string]string) (*EmailValidationResult, error) {
	args := m.Called(ctx, rawEmail, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*EmailValidationResult), args.Error(1)
}

type loggedEvent struct {
	Name      string
	Email     string
	Operation string
	Decision  string
	Duration  time.Duration
	Err       error
}

// recordingLogger keeps every call in order so tests can assert on the event trail.
type recordingLogger struct {
	mu     sync.Mutex
	events []loggedEvent
}

func (l *recordingLogger) add(e loggedEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *recordingLogger) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Name)
	}
	return out
}

func (l *recordingLogger) find(name string) (loggedEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e.Name == name {
			return e, true
		}
	}
	return loggedEvent{}, false
}

func (l *recordingLogger) LogValidationAttempt(_ context.Context, email string, _ EmailValidationResult, d time.Duration, _ map[string]string) {
	l.add(loggedEvent{Name: "VALIDATION_ATTEMPT", Email: email, Duration: d})
}

func (l *recordingLogger) LogDuplicateClientDetection(_ context.Context, email, _ string, _ map[string]string) {
	l.add(loggedEvent{Name: "DUPLICATE_CLIENT", Email: email})
}

func (l *recordingLogger) LogLeadConversion(_ context.Context, email, _ string, _ map[string]string) {
	l.add(loggedEvent{Name: "LEAD_CONVERSION", Email: email})
}

func (l *recordingLogger) LogDatabaseError(_ context.Context, operation, email string, err error) {
	l.add(loggedEvent{Name: "DATABASE_ERROR", Email: email, Operation: operation, Err: err})
}

func (l *recordingLogger) LogValidationError(_ context.Context, email, reason string) {
	l.add(loggedEvent{Name: "VALIDATION_ERROR", Email: email, Decision: reason})
}

func (l *recordingLogger) LogPerformanceWarning(_ context.Context, operation string, d time.Duration, _ map[string]string) {
	l.add(loggedEvent{Name: "PERFORMANCE_WARNING", Operation: operation, Duration: d})
}

func (l *recordingLogger) LogPerformanceMetrics(_ context.Context, operation string, d time.Duration, _ map[string]string) {
	l.add(loggedEvent{Name: "PERFORMANCE_METRICS", Operation: operation, Duration: d})
}

func (l *recordingLogger) LogGracefulDegradation(_ context.Context, operation, email, decision string, err error) {
	l.add(loggedEvent{Name: "GRACEFUL_DEGRADATION", Email: email, Operation: operation, Decision: decision, Err: err})
}

func (l *recordingLogger) LogWebhookEvent(_ context.Context, event entity.PaymentEvent, outcome string) {
	l.add(loggedEvent{Name: "WEBHOOK_EVENT", Email: event.Email, Decision: outcome})
}

func (l *recordingLogger) LogWebhookError(_ context.Context, event entity.PaymentEvent, err error) {
	l.add(loggedEvent{Name: "WEBHOOK_ERROR", Email: event.Email, Err: err})
}

func (l *recordingLogger) LogNotificationHandoff(_ context.Context, kind, email string, err error) {
	l.add(loggedEvent{Name: "NOTIFICATION_HANDOFF", Email: email, Operation: kind, Err: err})
}

// stepClock advances by step on every call.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}
