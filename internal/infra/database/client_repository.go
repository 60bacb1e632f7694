package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
)

const selectClient = `
	SELECT id, email, COALESCE(name, ''), status, COALESCE(external_session_id, ''),
	       COALESCE(amount_total, 0), COALESCE(currency, ''), COALESCE(tier_name, ''), created_at
	FROM clients`

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

// Rows are written by other services, so the email is compared lowercased here too.
func (r *ClientRepository) FindActiveByEmail(ctx context.Context, email string) (*entity.Client, error) {
	query := selectClient + `
		WHERE LOWER(email) = $1 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1`
	return r.queryOne(ctx, "clients.find_active_by_email", query, email)
}

func (r *ClientRepository) FindVerified(ctx context.Context, sessionID, email string) (*entity.Client, error) {
	query := selectClient + `
		WHERE status IN ('completed', 'active')
		  AND (($1 <> '' AND external_session_id = $1) OR ($2 <> '' AND LOWER(email) = $2))
		ORDER BY created_at DESC
		LIMIT 1`
	return r.queryOne(ctx, "clients.find_verified", query, sessionID, email)
}

func (r *ClientRepository) queryOne(ctx context.Context, operation, query string, args ...any) (*entity.Client, error) {
	c := &entity.Client{}
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.Email,
		&c.Name,
		&c.Status,
		&c.ExternalSessionID,
		&c.AmountTotal,
		&c.Currency,
		&c.TierName,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, wrapError(operation, err)
	}
	return c, nil
}
