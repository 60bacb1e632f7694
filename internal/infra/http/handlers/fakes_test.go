package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
	"github.com/xavierca1/ligue-onboarding/internal/infra/integration/stripe"
	"github.com/xavierca1/ligue-onboarding/internal/infra/logging"
	"github.com/xavierca1/ligue-onboarding/internal/infra/queue"
)

// memLeadRepo mimics the SQL guards of the real repository.
type memLeadRepo struct {
	mu    sync.Mutex
	leads map[string]*entity.Lead
	seq   int
	err   error
}

func newMemLeadRepo() *memLeadRepo {
	return &memLeadRepo{leads: map[string]*entity.Lead{}}
}

func (r *memLeadRepo) add(lead *entity.Lead) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[lead.ID] = lead
}

func (r *memLeadRepo) get(id string) entity.Lead {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.leads[id]
}

func (r *memLeadRepo) FindByEmail(_ context.Context, email string) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, l := range r.leads {
		if l.Email == email {
			copied := *l
			return &copied, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *memLeadRepo) FindByID(_ context.Context, id string) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	l, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (r *memLeadRepo) FindBySessionID(_ context.Context, sessionID string) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.ExternalSessionID != nil && *l.ExternalSessionID == sessionID {
			copied := *l
			return &copied, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *memLeadRepo) Upsert(_ context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, l := range r.leads {
		if l.Email == lead.Email {
			l.Name = lead.Name
			lead.ID = l.ID
			return nil
		}
	}
	r.seq++
	lead.ID = fmt.Sprintf("lead-%d", r.seq)
	lead.Status = entity.LeadStatusNew
	copied := *lead
	r.leads[lead.ID] = &copied
	return nil
}

func (r *memLeadRepo) LinkCheckoutSession(ctx context.Context, lead *entity.Lead, sessionID string) error {
	if err := r.Upsert(ctx, lead); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.leads[lead.ID]
	l.ExternalSessionID = &sessionID
	if l.Status == entity.LeadStatusNew {
		l.Status = entity.LeadStatusCheckoutStarted
	}
	return nil
}

func (r *memLeadRepo) MarkPaid(_ context.Context, result entity.PaymentResult) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[result.LeadID]
	if !ok || l.Status == entity.LeadStatusPaid {
		return false, nil
	}
	l.Status = entity.LeadStatusPaid
	amount := result.AmountPaid
	paidAt := result.ProcessedAt
	pi := result.PaymentIntentID
	l.AmountPaid = &amount
	l.PaidAt = &paidAt
	l.PaymentIntentID = &pi
	return true, nil
}

func (r *memLeadRepo) MarkPaymentFailed(_ context.Context, leadID, paymentIntentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[leadID]
	if !ok || l.Status == entity.LeadStatusPaid || l.Status == entity.LeadStatusPaymentFailed {
		return false, nil
	}
	l.Status = entity.LeadStatusPaymentFailed
	l.PaymentIntentID = &paymentIntentID
	return true, nil
}

func (r *memLeadRepo) ClaimAbandonedCheckouts(context.Context, time.Duration, int) ([]*entity.Lead, error) {
	return nil, nil
}

type memClientRepo struct {
	clients []*entity.Client
	err     error
}

func (r *memClientRepo) FindActiveByEmail(_ context.Context, email string) (*entity.Client, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.clients {
		if strings.EqualFold(c.Email, email) && c.Status == entity.ClientStatusActive {
			return c, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *memClientRepo) FindVerified(_ context.Context, sessionID, email string) (*entity.Client, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.clients {
		if c.Status != entity.ClientStatusCompleted && c.Status != entity.ClientStatusActive {
			continue
		}
		if (sessionID != "" && c.ExternalSessionID == sessionID) || (email != "" && strings.EqualFold(c.Email, email)) {
			return c, nil
		}
	}
	return nil, entity.ErrNotFound
}

type fakeGateway struct {
	mu       sync.Mutex
	sessions []stripe.SessionConfig
}

func (g *fakeGateway) FindCustomerByEmail(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (g *fakeGateway) CreateCustomer(context.Context, stripe.CreateCustomerInput) (string, error) {
	return "cus_test", nil
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, config stripe.SessionConfig) (*stripe.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions = append(g.sessions, config)
	id := fmt.Sprintf("cs_test_%d", len(g.sessions))
	return &stripe.CheckoutSession{ID: id, URL: "https://checkout.stripe.com/c/pay/" + id}, nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}

type fakeQueue struct {
	mu       sync.Mutex
	payloads []queue.NotificationPayload
}

func (q *fakeQueue) PublishNotification(_ context.Context, payload queue.NotificationPayload) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.payloads = append(q.payloads, payload)
	return nil
}

func (q *fakeQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.payloads)
}

func newBufferedEventLogger() (*logging.EventLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logging.NewEventLogger(logging.NewWithWriter(buf, "debug", "json")), buf
}
