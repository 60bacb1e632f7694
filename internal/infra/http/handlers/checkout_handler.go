package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/xavierca1/ligue-onboarding/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-onboarding/internal/usecase"
)

type CheckoutStarter interface {
	Execute(ctx context.Context, input usecase.CheckoutInput, meta map[string]string) (*usecase.CheckoutOutput, error)
}

type CheckoutHandler struct {
	UseCase CheckoutStarter
}

func NewCheckoutHandler(uc CheckoutStarter) *CheckoutHandler {
	return &CheckoutHandler{UseCase: uc}
}

func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.CheckoutInput

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RecordCheckout("invalid_request")
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidationError, "Invalid request body.", map[string]any{
			"field":      "body",
			"suggestion": "Send a JSON object with email, name, phone and location.",
		})
		return
	}

	// o gateway não deve ver a sessão pela metade se o cliente desistir
	ctx := context.WithoutCancel(r.Context())

	output, err := h.UseCase.Execute(ctx, input, requestMeta(r, "checkout"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	middleware.RecordCheckout("created")
	writeJSON(w, http.StatusOK, map[string]string{"url": output.URL})
}

func (h *CheckoutHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case usecase.CodeValidationError:
			middleware.RecordCheckout("invalid_email")
			writeErrorResponse(w, http.StatusBadRequest, domainErr.Code, domainErr.Message, map[string]any{
				"field":      domainErr.Field,
				"suggestion": domainErr.Suggestion,
			})
			return
		case usecase.CodeDuplicateClient:
			middleware.RecordCheckout("duplicate_blocked")
			writeErrorResponse(w, http.StatusConflict, domainErr.Code, domainErr.Message, domainErr.Details)
			return
		}
	}

	middleware.RecordCheckout("error")
	middleware.RecordIntegrationError("checkout")
	hlog.FromRequest(r).Error().Err(err).Msg("checkout failed")
	writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeServerError, usecase.MsgServerError, map[string]any{
		"retryable": true,
	})
}
