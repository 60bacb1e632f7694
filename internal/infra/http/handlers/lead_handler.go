package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
	"github.com/xavierca1/ligue-onboarding/internal/usecase"
)

type LeadCapturer interface {
	Execute(ctx context.Context, input usecase.CaptureLeadInput) (*entity.Lead, error)
}

type LeadHandler struct {
	UseCase LeadCapturer
}

func NewLeadHandler(uc LeadCapturer) *LeadHandler {
	return &LeadHandler{UseCase: uc}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var req usecase.CaptureLeadInput

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	lead, err := h.UseCase.Execute(r.Context(), req)
	if err != nil {
		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) {
			writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{Success: false, Message: domainErr.Message})
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("lead capture failed")
		writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{Success: false, Message: "Failed to capture lead"})
		return
	}

	writeJSON(w, http.StatusOK, CaptureLeadResponse{Success: true, LeadID: lead.ID})
}
