package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
)

const selectLead = `
	SELECT id, email, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(location, ''),
	       status, external_session_id, payment_intent_id, amount_paid, paid_at,
	       recovery_email_sent_at, created_at, updated_at
	FROM leads`

const upsertLeadQuery = `
	INSERT INTO leads (id, email, name, phone, location, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 'new', NOW(), NOW())
	ON CONFLICT (email)
	DO UPDATE SET
		name = COALESCE(EXCLUDED.name, leads.name),
		phone = COALESCE(EXCLUDED.phone, leads.phone),
		location = COALESCE(EXCLUDED.location, leads.location),
		updated_at = NOW()
	RETURNING id, status, created_at, updated_at
`

const linkCheckoutSessionQuery = `
	INSERT INTO leads (id, email, name, phone, location, status, external_session_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 'checkout_started', $6, NOW(), NOW())
	ON CONFLICT (email)
	DO UPDATE SET
		name = COALESCE(EXCLUDED.name, leads.name),
		phone = COALESCE(EXCLUDED.phone, leads.phone),
		location = COALESCE(EXCLUDED.location, leads.location),
		external_session_id = CASE WHEN leads.status = 'paid'
			THEN leads.external_session_id ELSE EXCLUDED.external_session_id END,
		recovery_email_sent_at = CASE WHEN leads.status IN ('new', 'checkout_started')
			THEN NULL ELSE leads.recovery_email_sent_at END,
		status = CASE WHEN leads.status IN ('new', 'checkout_started')
			THEN 'checkout_started' ELSE leads.status END,
		updated_at = NOW()
	RETURNING id, status, created_at, updated_at
`

const markPaidQuery = `
	UPDATE leads SET
		status = 'paid',
		payment_intent_id = COALESCE(NULLIF($2, ''), payment_intent_id),
		amount_paid = $3,
		paid_at = $4,
		updated_at = NOW()
	WHERE id = $1 AND status <> 'paid'
`

const markPaymentFailedQuery = `
	UPDATE leads SET
		status = 'payment_failed',
		payment_intent_id = COALESCE(NULLIF($2, ''), payment_intent_id),
		updated_at = NOW()
	WHERE id = $1
	  AND status <> 'paid'
	  AND (status <> 'payment_failed' OR payment_intent_id IS DISTINCT FROM NULLIF($2, ''))
`

const claimAbandonedQuery = `
	UPDATE leads SET recovery_email_sent_at = NOW()
	WHERE id IN (
		SELECT id FROM leads
		WHERE status = 'checkout_started'
		  AND recovery_email_sent_at IS NULL
		  AND updated_at < NOW() - make_interval(secs => $1)
		ORDER BY updated_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	)
	RETURNING id, email, COALESCE(name, ''), status, created_at, updated_at
`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := selectLead + ` WHERE email = $1 ORDER BY created_at DESC LIMIT 1`
	return r.queryOne(ctx, "leads.find_by_email", query, email)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	// ids são UUID; qualquer outra coisa não existe
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrNotFound
	}
	return r.queryOne(ctx, "leads.find_by_id", selectLead+` WHERE id = $1`, id)
}

func (r *LeadRepository) FindBySessionID(ctx context.Context, sessionID string) (*entity.Lead, error) {
	query := selectLead + ` WHERE external_session_id = $1 ORDER BY updated_at DESC LIMIT 1`
	return r.queryOne(ctx, "leads.find_by_session", query, sessionID)
}

// Upsert relies on the unique index on leads.email; concurrent first submissions converge on one row.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	err := r.DB.QueryRowContext(ctx, upsertLeadQuery,
		uuid.New().String(),
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Phone),
		nullString(lead.Location),
	).Scan(&lead.ID, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt)

	return wrapError("leads.upsert", err)
}

// LinkCheckoutSession creates the lead if needed and records the session. Only
// new/checkout_started rows move to checkout_started; a paid lead keeps its session.
func (r *LeadRepository) LinkCheckoutSession(ctx context.Context, lead *entity.Lead, sessionID string) error {
	err := r.DB.QueryRowContext(ctx, linkCheckoutSessionQuery,
		uuid.New().String(),
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Phone),
		nullString(lead.Location),
		sessionID,
	).Scan(&lead.ID, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return wrapError("leads.link_checkout_session", err)
	}

	lead.ExternalSessionID = &sessionID
	return nil
}

// MarkPaid is guarded by status <> 'paid', so a replayed event changes nothing.
func (r *LeadRepository) MarkPaid(ctx context.Context, result entity.PaymentResult) (bool, error) {
	res, err := r.DB.ExecContext(ctx, markPaidQuery, result.LeadID, result.PaymentIntentID, result.AmountPaid, result.ProcessedAt)
	return applied(res, err, "leads.mark_paid")
}

func (r *LeadRepository) MarkPaymentFailed(ctx context.Context, leadID, paymentIntentID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, markPaymentFailedQuery, leadID, paymentIntentID)
	return applied(res, err, "leads.mark_payment_failed")
}

func (r *LeadRepository) ClaimAbandonedCheckouts(ctx context.Context, olderThan time.Duration, limit int) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, claimAbandonedQuery, olderThan.Seconds(), limit)
	if err != nil {
		return nil, wrapError("leads.claim_abandoned", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead := &entity.Lead{}
		if err := rows.Scan(&lead.ID, &lead.Email, &lead.Name, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
			return nil, wrapError("leads.claim_abandoned", err)
		}
		leads = append(leads, lead)
	}
	return leads, wrapError("leads.claim_abandoned", rows.Err())
}

func (r *LeadRepository) queryOne(ctx context.Context, operation, query string, args ...any) (*entity.Lead, error) {
	lead := &entity.Lead{}
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&lead.ID,
		&lead.Email,
		&lead.Name,
		&lead.Phone,
		&lead.Location,
		&lead.Status,
		&lead.ExternalSessionID,
		&lead.PaymentIntentID,
		&lead.AmountPaid,
		&lead.PaidAt,
		&lead.RecoveryEmailSentAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, wrapError(operation, err)
	}
	return lead, nil
}

func applied(res sql.Result, err error, operation string) (bool, error) {
	if err != nil {
		return false, wrapError(operation, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapError(operation, err)
	}
	return n > 0, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
