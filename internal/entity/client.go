package entity

import (
	"context"
	"time"
)

const (
	ClientStatusActive    = "active"
	ClientStatusCompleted = "completed"
)

// Client is a confirmed paying member. Rows are written outside this service;
// here they are only read as the authority for duplicate blocking and payment verification.
type Client struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Status            string    `json:"status"`
	ExternalSessionID string    `json:"external_session_id"`
	AmountTotal       float64   `json:"amount_total"`
	Currency          string    `json:"currency"`
	TierName          string    `json:"tier_name"`
	CreatedAt         time.Time `json:"created_at"`
}

type ClientRepositoryInterface interface {
	FindActiveByEmail(ctx context.Context, email string) (*Client, error)

	// FindVerified returns the most recent completed/active client matching the session id or the email.
	FindVerified(ctx context.Context, sessionID, email string) (*Client, error)
}
