package usecase

import "errors"

const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeDuplicateClient = "DUPLICATE_CLIENT"
	CodeServerError     = "SERVER_ERROR"
)

const (
	MsgInvalidEmail    = "Please enter a valid email address."
	MsgDuplicateClient = "This email is already registered as an active member. Please sign in to your account or use a different email address."
	MsgServerError     = "Something went wrong while starting your checkout. Please try again later."
)

// DomainError is an outcome the caller can act on. Message is safe to show to the user.
type DomainError struct {
	Code       string
	Message    string
	Field      string
	Suggestion string
	Details    map[string]any
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// TechnicalError is never shown to the caller as-is.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var techErr *TechnicalError
	return errors.As(err, &techErr)
}

func newInvalidEmailError() *DomainError {
	return &DomainError{
		Code:       CodeValidationError,
		Message:    MsgInvalidEmail,
		Field:      "email",
		Suggestion: "Check the address for typos, e.g. name@example.com",
	}
}

func newDuplicateClientError() *DomainError {
	return &DomainError{
		Code:    CodeDuplicateClient,
		Message: MsgDuplicateClient,
		Details: map[string]any{
			"field":   "email",
			"actions": []string{"sign_in", "use_different_email"},
		},
	}
}
