package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"registrar/internal/platform/metrics"
	"registrar/internal/platform/middleware"
	"registrar/pkg/platform/httputil"
	"registrar/pkg/platform/middleware/metadata"
	"registrar/pkg/platform/middleware/requesttime"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 64 << 10

// RouteRegistrar is implemented by every module handler.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Deps are the pieces the router is assembled from.
type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// MetricsHandler serves /metrics when non-nil.
	MetricsHandler http.Handler
	Handlers       []RouteRegistrar
}

// NewRouter wires the shared middleware stack and mounts each module's routes.
// The handlers stay thin and delegate to their services.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(d.Logger, d.Metrics))
	r.Use(middleware.MaxBody(MaxBodyBytes))

	for _, h := range d.Handlers {
		h.Register(r)
	}
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "Nav atrasts"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Error: "Metode nav atļauta"})
	})
	return r
}
