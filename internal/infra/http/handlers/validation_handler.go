package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-onboarding/internal/usecase"
)

const (
	msgEmailAvailable = "Email is available."
	msgWelcomeBack    = "Welcome back! You can continue your registration."
)

type ValidationHandler struct {
	Validator usecase.EmailValidator
}

func NewValidationHandler(validator usecase.EmailValidator) *ValidationHandler {
	return &ValidationHandler{Validator: validator}
}

type ValidateEmailResponse struct {
	IsValid        bool   `json:"isValid"`
	ExistsAsClient bool   `json:"existsAsClient"`
	ExistsAsLead   bool   `json:"existsAsLead"`
	Message        string `json:"message"`
}

// Handle never exposes client or lead ids; the form only needs the flags.
func (h *ValidationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidationError, "Invalid request body.", nil)
		return
	}

	result, err := h.Validator.ValidateEmail(r.Context(), input.Email, requestMeta(r, "validate_email"))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeServerError, usecase.MsgServerError, nil)
		return
	}

	response := ValidateEmailResponse{
		IsValid:        result.IsValid,
		ExistsAsClient: result.ExistsAsClient,
		ExistsAsLead:   result.ExistsAsLead,
	}
	switch {
	case !result.IsValid:
		response.Message = usecase.MsgInvalidEmail
	case result.ExistsAsClient:
		response.Message = usecase.MsgDuplicateClient
	case result.ExistsAsLead:
		response.Message = msgWelcomeBack
	default:
		response.Message = msgEmailAvailable
	}

	writeJSON(w, http.StatusOK, response)
}
