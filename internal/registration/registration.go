package registration

import (
	"log/slog"

	"registrar/internal/registration/handler"
	"registrar/internal/registration/service"
)

// Service exposes the registration pipeline.
type Service = service.Service

// Handler wires HTTP endpoints to the registration service.
type Handler = handler.Handler

// NewService constructs the registration service with required dependencies.
func NewService(transport service.Transport, writer service.LedgerWriter, renderer service.Renderer, cfg service.Config, opts ...service.Option) *Service {
	return service.New(transport, writer, renderer, cfg, opts...)
}

// NewHandler constructs the HTTP handler for /api/register.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
