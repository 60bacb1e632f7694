package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/xavierca1/ligue-onboarding/internal/usecase"
)

type PaymentVerifier interface {
	Execute(ctx context.Context, sessionID, email string) (*usecase.VerifyPaymentOutput, error)
}

type VerifyPaymentHandler struct {
	UseCase PaymentVerifier
}

func NewVerifyPaymentHandler(uc PaymentVerifier) *VerifyPaymentHandler {
	return &VerifyPaymentHandler{UseCase: uc}
}

func (h *VerifyPaymentHandler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	output, err := h.UseCase.Execute(r.Context(), query.Get("session_id"), query.Get("email"))
	if errors.Is(err, usecase.ErrMissingLookupKey) {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidationError, "session_id or email is required.", nil)
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("payment verification failed")
		writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeServerError, usecase.MsgServerError, nil)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
