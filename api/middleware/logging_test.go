package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dealdesk/merchant-portal/pkg/logger"
	"github.com/dealdesk/merchant-portal/pkg/metrics"
)

func TestLoggingRecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	portal := metrics.New(reg)

	r := chi.NewRouter()
	r.Use(Logging(logger.Nop(), portal))
	r.Get("/api/v1/deals/drafts/{dealId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/deals/drafts/abc", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}

	expected := `
# HELP http_requests_total HTTP requests served, by route pattern and status.
# TYPE http_requests_total counter
http_requests_total{method="GET",route="/api/v1/deals/drafts/{dealId}",status="418"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	handler := RequestID(logger.Nop())(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("expected echoed id, got %q", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("X-Request-Id"); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}
