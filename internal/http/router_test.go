package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/internal/health"
	"registrar/internal/platform/metrics"
	"registrar/internal/platform/middleware"
	"registrar/pkg/requestcontext"
	"registrar/pkg/testutil"
)

type probe struct{}

func (probe) Register(r chi.Router) {
	r.Get("/api/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
	r.Post("/api/echo", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		ctx := r.Context()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"len":        len(body),
			"request_id": requestcontext.RequestID(ctx),
			"client_ip":  requestcontext.ClientIP(ctx),
		})
	})
}

func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:        metrics.New(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Handlers:       []RouteRegistrar{health.New(), probe{}},
	}), reg
}

func TestRouterMountsHandlers(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/_health"))
	testutil.AssertStatusOK(t, rr)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRouterPropagatesRequestMetadata(t *testing.T) {
	router, _ := newTestRouter(t)
	req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/echo", "{}")
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "request_id", "req-42")
	testutil.AssertJSONContains(t, rr, "client_ip", "203.0.113.7")
	assert.Equal(t, "req-42", rr.Header().Get(middleware.RequestIDHeader))
}

func TestRouterCapsBody(t *testing.T) {
	router, _ := newTestRouter(t)
	req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/echo", strings.Repeat("x", MaxBodyBytes+1))

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestRouterRecoversPanics(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/panic"))
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "Servera kļūda")
}

func TestRouterNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/nope"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestRouterServesMetrics(t *testing.T) {
	router, _ := newTestRouter(t)
	testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/_health"))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(t, rr)
	body := rr.Body.String()
	require.Contains(t, body, "registrar_http_requests_total")
	assert.Contains(t, body, `route="/api/_health"`)
}
