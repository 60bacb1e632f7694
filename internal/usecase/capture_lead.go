package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
)

type CaptureLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Logger   EventLogger
}

func NewCaptureLeadUseCase(leadRepo entity.LeadRepositoryInterface, logger EventLogger) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{LeadRepo: leadRepo, Logger: logger}
}

// Execute upserts on the normalized email, so repeated submissions land on the same row.
func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*entity.Lead, error) {
	if errs := ValidateLeadInput(input); len(errs) > 0 {
		first := errs[0]
		if first.Field == "email" {
			uc.Logger.LogValidationError(ctx, input.Email, "invalid_format")
			return nil, newInvalidEmailError()
		}
		return nil, &DomainError{
			Code:    CodeValidationError,
			Message: first.Error(),
			Field:   first.Field,
		}
	}

	lead := &entity.Lead{
		Email:    NormalizeEmail(input.Email),
		Name:     strings.TrimSpace(input.Name),
		Phone:    strings.TrimSpace(input.Phone),
		Location: strings.TrimSpace(input.Location),
	}
	if err := uc.LeadRepo.Upsert(ctx, lead); err != nil {
		uc.Logger.LogDatabaseError(ctx, "LEAD_UPSERT", lead.Email, err)
		return nil, &TechnicalError{Code: CodeServerError, Message: "failed to capture lead", Err: err}
	}
	return lead, nil
}
