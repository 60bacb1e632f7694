package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
)

var ErrMissingLookupKey = errors.New("session_id or email is required")

type VerifyPaymentUseCase struct {
	ClientRepo entity.ClientRepositoryInterface
}

func NewVerifyPaymentUseCase(clientRepo entity.ClientRepositoryInterface) *VerifyPaymentUseCase {
	return &VerifyPaymentUseCase{ClientRepo: clientRepo}
}

// Execute is read-only. Anything short of a matching completed/active client is a denial.
func (uc *VerifyPaymentUseCase) Execute(ctx context.Context, sessionID, email string) (*VerifyPaymentOutput, error) {
	sessionID = strings.TrimSpace(sessionID)
	email = NormalizeEmail(email)
	if sessionID == "" && email == "" {
		return nil, ErrMissingLookupKey
	}

	client, err := uc.ClientRepo.FindVerified(ctx, sessionID, email)
	if errors.Is(err, entity.ErrNotFound) {
		return &VerifyPaymentOutput{Verified: false, Message: "No completed payment found"}, nil
	}
	if err != nil {
		return nil, err
	}

	return &VerifyPaymentOutput{
		Verified: true,
		Payment: &VerifiedPayment{
			ID:          client.ID,
			Email:       client.Email,
			Name:        client.Name,
			TierName:    client.TierName,
			AmountTotal: client.AmountTotal,
			Currency:    client.Currency,
			CreatedAt:   client.CreatedAt,
		},
	}, nil
}
