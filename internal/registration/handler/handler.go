package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"registrar/internal/registration/models"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/httputil"
	"registrar/pkg/requestcontext"
)

const registerPath = "/api/register"

var errTrailingData = errors.New("unexpected data after JSON body")

// Service defines the interface for registration operations.
type Service interface {
	Submit(ctx context.Context, req *models.RegisterRequest) (*models.Outcome, error)
}

// Handler handles the registration endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new registration Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// Register registers the registration routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get(registerPath, h.handleInfo)
	r.Post(registerPath, h.handleRegister)
}

func (h *Handler) handleInfo(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, InfoResponse{
		OK:       true,
		Endpoint: registerPath,
		Method:   http.MethodPost,
	})
}

// handleRegister validates the submission, runs the side effects and reports
// per-message delivery.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req models.RegisterRequest
	if err := decodeBody(r.Body, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid registration payload",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, models.MsgInvalidPayload))
		return
	}

	outcome, err := h.service.Submit(ctx, &req)
	if err != nil {
		h.writeFailure(ctx, w, outcome, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, RegisterResponse{
		OK:   true,
		Mail: toMailResult(outcome),
	})
}

// decodeBody reads exactly one JSON value; anything but whitespace after it
// is an error.
func decodeBody(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, outcome *models.Outcome, err error) {
	requestID := requestcontext.RequestID(ctx)
	de, ok := dErrors.As(err)
	if !ok {
		de = dErrors.Wrap(err, dErrors.CodeInternal, httputil.MsgServerError)
	}

	switch de.Code {
	case dErrors.CodeValidation:
		h.logger.InfoContext(ctx, "registration rejected",
			"request_id", requestID,
			"field", de.Field,
		)
	case dErrors.CodeBadGateway:
		h.logger.ErrorContext(ctx, "registration mail delivery failed",
			"request_id", requestID,
			"error", err,
		)
		if outcome != nil {
			httputil.WriteJSON(w, dErrors.ToHTTPStatus(de.Code), RegisterResponse{
				OK:    false,
				Error: de.Message,
				Mail:  toMailResult(outcome),
			})
			return
		}
	default:
		h.logger.ErrorContext(ctx, "registration failed",
			"request_id", requestID,
			"code", de.Code,
			"error", err,
		)
	}
	httputil.WriteError(w, de)
}
