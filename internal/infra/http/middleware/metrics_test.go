package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/verify-payment", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/verify-payment", "418"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify-payment?session_id=cs_123", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/verify-payment", "418"))
	assert.Equal(t, before+1, after)
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(checkoutOutcomes.WithLabelValues("duplicate_blocked"))
	RecordCheckout("duplicate_blocked")
	assert.Equal(t, before+1, testutil.ToFloat64(checkoutOutcomes.WithLabelValues("duplicate_blocked")))

	before = testutil.ToFloat64(webhookEvents.WithLabelValues("payment_intent.succeeded", "applied"))
	RecordWebhookEvent("payment_intent.succeeded", "applied")
	assert.Equal(t, before+1, testutil.ToFloat64(webhookEvents.WithLabelValues("payment_intent.succeeded", "applied")))
}

func TestMetrics_CountsRecoveredPanicAs500(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Use(Recover)
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("nil pointer")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "500"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "500")))
}
