// Package health serves the liveness endpoints.
package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"registrar/pkg/platform/httputil"
	"registrar/pkg/requestcontext"
)

// PingResponse is the body of GET /api/ping.
type PingResponse struct {
	OK bool  `json:"ok"`
	T  int64 `json:"t"`
}

// Handler serves /api/_health and /api/ping.
type Handler struct{}

func New() *Handler {
	return &Handler{}
}

// Register registers the health routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/_health", h.handleHealth)
	r.Get("/api/ping", h.handlePing)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	now := requestcontext.Now(r.Context())
	httputil.WriteJSON(w, http.StatusOK, PingResponse{OK: true, T: now.UnixMilli()})
}
