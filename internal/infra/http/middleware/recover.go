package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// Recover turns a panic into the generic SERVER_ERROR body; nothing internal leaks.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				hlog.FromRequest(r).Error().Interface("panic", rec).Msg("recovered from panic")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{
					"error":     "An unexpected error occurred. Please try again later.",
					"errorType": "SERVER_ERROR",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
