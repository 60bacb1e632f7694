package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-onboarding/internal/infra/http/middleware"
)

const maxBodyBytes = 64 << 10

type ErrorResponse struct {
	Error     string         `json:"error"`
	ErrorType string         `json:"errorType"`
	Details   map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, errorType, message string, details map[string]any) {
	writeJSON(w, status, ErrorResponse{
		Error:     message,
		ErrorType: errorType,
		Details:   details,
	})
}

// requestMeta is what the event log gets to know about the caller. Never put the email here.
func requestMeta(r *http.Request, source string) map[string]string {
	return map[string]string{
		"ip":         middleware.ClientIP(r),
		"user_agent": r.UserAgent(),
		"source":     source,
	}
}
