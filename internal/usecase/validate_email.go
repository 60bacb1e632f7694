package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
)

const (
	OpClientCheck = "CLIENT_CHECK"
	OpLeadCheck   = "LEAD_CHECK"

	opValidateEmail = "validate_email"

	// SlowValidationThreshold escalates the timing of a validation to a performance warning.
	SlowValidationThreshold = time.Second
)

type ValidateEmailUseCase struct {
	ClientRepo entity.ClientRepositoryInterface
	LeadRepo   entity.LeadRepositoryInterface
	Logger     EventLogger
	Now        func() time.Time
}

func NewValidateEmailUseCase(
	clientRepo entity.ClientRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
	logger EventLogger,
) *ValidateEmailUseCase {
	return &ValidateEmailUseCase{
		ClientRepo: clientRepo,
		LeadRepo:   leadRepo,
		Logger:     logger,
		Now:        time.Now,
	}
}

// ValidateEmail decides whether rawEmail may start a registration. Datastore failures
// are logged and returned as *entity.DatastoreError; whether to fail open is up to the caller.
func (uc *ValidateEmailUseCase) ValidateEmail(ctx context.Context, rawEmail string, meta map[string]string) (*EmailValidationResult, error) {
	start := uc.Now()
	defer func() {
		uc.recordTiming(ctx, start, meta)
	}()

	if !IsValidEmailFormat(rawEmail) {
		result := &EmailValidationResult{}
		uc.Logger.LogValidationAttempt(ctx, rawEmail, *result, uc.Now().Sub(start), meta)
		return result, nil
	}

	email := NormalizeEmail(rawEmail)

	// As duas consultas são independentes e só leitura
	var client *entity.Client
	var lead *entity.Lead
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		found, err := uc.ClientRepo.FindActiveByEmail(gctx, email)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			return tagDatastoreError(OpClientCheck, err)
		}
		client = found
		return nil
	})

	g.Go(func() error {
		found, err := uc.LeadRepo.FindByEmail(gctx, email)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			return tagDatastoreError(OpLeadCheck, err)
		}
		lead = found
		return nil
	})

	if err := g.Wait(); err != nil {
		var dsErr *entity.DatastoreError
		operation := OpClientCheck
		if errors.As(err, &dsErr) {
			operation = dsErr.Operation
		}
		uc.Logger.LogDatabaseError(ctx, operation, email, err)
		return nil, err
	}

	result := &EmailValidationResult{IsValid: true}
	if client != nil {
		result.ExistsAsClient = true
		result.ClientID = client.ID
	}
	if lead != nil {
		result.ExistsAsLead = true
		result.LeadID = lead.ID
	}

	uc.Logger.LogValidationAttempt(ctx, email, *result, uc.Now().Sub(start), meta)

	switch {
	case result.ExistsAsClient:
		uc.Logger.LogDuplicateClientDetection(ctx, email, result.ClientID, meta)
	case result.ExistsAsLead:
		uc.Logger.LogLeadConversion(ctx, email, result.LeadID, meta)
	}

	return result, nil
}

func (uc *ValidateEmailUseCase) recordTiming(ctx context.Context, start time.Time, meta map[string]string) {
	elapsed := uc.Now().Sub(start)
	uc.Logger.LogPerformanceMetrics(ctx, opValidateEmail, elapsed, meta)
	if elapsed > SlowValidationThreshold {
		uc.Logger.LogPerformanceWarning(ctx, opValidateEmail, elapsed, meta)
	}
}

// tagDatastoreError keeps the repository's classification but names the lookup that failed.
func tagDatastoreError(operation string, err error) error {
	dsErr := &entity.DatastoreError{Operation: operation, Err: err}

	var inner *entity.DatastoreError
	if errors.As(err, &inner) {
		dsErr.Transient = inner.Transient
	}
	return dsErr
}
