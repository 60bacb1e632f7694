package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
	"github.com/xavierca1/ligue-onboarding/internal/usecase"
)

func postValidate(h *ValidationHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/validate-email", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Handle(rr, req)
	return rr
}

func TestValidationHandler(t *testing.T) {
	leads := newMemLeadRepo()
	leads.add(&entity.Lead{ID: "lead-1", Email: "lead@example.com", Status: entity.LeadStatusNew})
	clients := &memClientRepo{clients: []*entity.Client{{ID: "client-1", Email: "member@example.com", Status: entity.ClientStatusActive}}}
	eventLogger, _ := newBufferedEventLogger()
	h := NewValidationHandler(usecase.NewValidateEmailUseCase(clients, leads, eventLogger))

	cases := []struct {
		name  string
		email string
		want  ValidateEmailResponse
	}{
		{"invalid", "nope", ValidateEmailResponse{Message: usecase.MsgInvalidEmail}},
		{"active client", "Member@Example.com", ValidateEmailResponse{IsValid: true, ExistsAsClient: true, Message: usecase.MsgDuplicateClient}},
		{"returning lead", "lead@example.com", ValidateEmailResponse{IsValid: true, ExistsAsLead: true, Message: msgWelcomeBack}},
		{"new email", "fresh@example.com", ValidateEmailResponse{IsValid: true, Message: msgEmailAvailable}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := postValidate(h, `{"email":"`+tc.email+`"}`)
			require.Equal(t, http.StatusOK, rr.Code)

			var got ValidateEmailResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, rr.Body.String(), "client-1")
			assert.NotContains(t, rr.Body.String(), "lead-1")
		})
	}
}

func TestValidationHandler_DatastoreErrorIs500(t *testing.T) {
	eventLogger, _ := newBufferedEventLogger()
	clients := &memClientRepo{err: &entity.DatastoreError{Operation: "find_active_client", Err: errors.New("down")}}
	h := NewValidationHandler(usecase.NewValidateEmailUseCase(clients, newMemLeadRepo(), eventLogger))

	rr := postValidate(h, `{"email":"someone@example.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "SERVER_ERROR")
}
