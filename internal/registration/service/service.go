package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"registrar/internal/ledger"
	"registrar/internal/mail"
	"registrar/internal/registration/metrics"
	"registrar/internal/registration/models"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/requestcontext"
)

// Caller-facing messages for non-validation failures.
const (
	MsgUnavailable    = "E-pasta serviss nav konfigurēts"
	MsgDeliveryFailed = "Neizdevās nosūtīt e-pastus"
	MsgInternal       = "Servera kļūda"
)

// Transport sends one email. Satisfied by mail.Transport implementations.
type Transport interface {
	Send(ctx context.Context, msg mail.Message) (string, error)
	Name() string
}

// LedgerWriter appends one row. Satisfied by ledger.Writer implementations.
type LedgerWriter interface {
	Append(ctx context.Context, row ledger.Row) error
	Name() string
}

// Renderer builds the outgoing messages.
type Renderer interface {
	Participant(sub *models.Submission) (mail.Message, error)
	Admin(ctx context.Context, sub *models.Submission) (mail.Message, error)
	Test(to string, now time.Time) (mail.Message, error)
}

// Config carries the pipeline knobs.
type Config struct {
	Policy             models.Policy
	SendTimeout        time.Duration
	LedgerTimeout      time.Duration
	FailOnTotalFailure bool
}

// Service runs the registration pipeline: validate, then append the ledger
// row and dispatch both emails concurrently.
type Service struct {
	transport Transport
	ledger    LedgerWriter
	renderer  Renderer
	cfg       Config

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service. A nil transport is allowed: every submission is
// then rejected as unavailable. A nil writer disables the ledger.
func New(transport Transport, writer LedgerWriter, renderer Renderer, cfg Config, opts ...Option) *Service {
	if writer == nil {
		writer = ledger.Disabled{}
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 8 * time.Second
	}
	if cfg.LedgerTimeout <= 0 {
		cfg.LedgerTimeout = 10 * time.Second
	}
	s := &Service{
		transport: transport,
		ledger:    writer,
		renderer:  renderer,
		cfg:       cfg,
		logger:    slog.New(slog.DiscardHandler),
		tracer:    noop.NewTracerProvider().Tracer("registration"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider names the active transport, or "" when none is configured.
func (s *Service) Provider() string {
	if s.transport == nil {
		return ""
	}
	return s.transport.Name()
}

// Submit validates req and, when it passes, runs Register. Validation
// failures return before any side effect.
func (s *Service) Submit(ctx context.Context, req *models.RegisterRequest) (*models.Outcome, error) {
	sub, err := req.Validate(s.cfg.Policy)
	if err != nil {
		s.metrics.IncrementSubmission(metrics.ResultInvalid)
		return nil, err
	}
	return s.Register(ctx, sub)
}

// Register performs the side effects for a validated submission. Ledger and
// delivery failures are recorded in the outcome and do not fail the call,
// except that losing both emails is a bad-gateway error when
// FailOnTotalFailure is set.
func (s *Service) Register(ctx context.Context, sub *models.Submission) (*models.Outcome, error) {
	if s.transport == nil {
		s.metrics.IncrementSubmission(metrics.ResultUnavailable)
		return nil, dErrors.Wrap(sentinel.ErrNotConfigured, dErrors.CodeUnavailable, MsgUnavailable)
	}

	ctx, span := s.tracer.Start(ctx, "registration.register",
		trace.WithAttributes(
			attribute.String("mail.provider", s.transport.Name()),
			attribute.String("ledger.backend", s.ledger.Name()),
		))
	defer span.End()

	participantMsg, adminMsg, row, err := s.prepare(ctx, sub)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prepare failed")
		s.metrics.IncrementSubmission(metrics.ResultFailed)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, MsgInternal)
	}

	outcome := &models.Outcome{
		Submission: sub,
		Provider:   s.transport.Name(),
		Ledger:     models.LedgerResult{Backend: s.ledger.Name()},
	}

	// Side effects outlive a client that hangs up mid-request.
	work := context.WithoutCancel(ctx)

	var g errgroup.Group
	if ledger.Enabled(s.ledger) {
		g.Go(func() error {
			outcome.Ledger = s.appendRow(work, row)
			return nil
		})
	}
	g.Go(func() error {
		outcome.Participant = s.dispatch(work, models.MessageParticipant, participantMsg)
		return nil
	})
	g.Go(func() error {
		outcome.Admin = s.dispatch(work, models.MessageAdmin, adminMsg)
		return nil
	})
	_ = g.Wait()

	if outcome.AllDeliveriesFailed() && s.cfg.FailOnTotalFailure {
		err := errors.Join(outcome.Participant.Err, outcome.Admin.Err)
		span.SetStatus(codes.Error, "all deliveries failed")
		s.metrics.IncrementSubmission(metrics.ResultFailed)
		return outcome, dErrors.Wrap(err, dErrors.CodeBadGateway, MsgDeliveryFailed)
	}

	s.metrics.IncrementSubmission(metrics.ResultAccepted)
	s.logger.InfoContext(ctx, "registration accepted",
		"request_id", requestcontext.RequestID(ctx),
		"provider", outcome.Provider,
		"participant_delivered", outcome.Participant.Delivered(),
		"admin_delivered", outcome.Admin.Delivered(),
		"ledger_written", outcome.Ledger.Written(),
	)
	return outcome, nil
}

// SendTest delivers a one-off message to check transport credentials.
func (s *Service) SendTest(ctx context.Context, to string) (string, error) {
	if s.transport == nil {
		return "", dErrors.Wrap(sentinel.ErrNotConfigured, dErrors.CodeUnavailable, MsgUnavailable)
	}
	msg, err := s.renderer.Test(to, requestcontext.Now(ctx))
	if err != nil {
		return "", err
	}
	res := s.dispatch(ctx, "test", msg)
	return res.MessageID, res.Err
}

func (s *Service) prepare(ctx context.Context, sub *models.Submission) (mail.Message, mail.Message, ledger.Row, error) {
	participantMsg, err := s.renderer.Participant(sub)
	if err != nil {
		return mail.Message{}, mail.Message{}, nil, err
	}
	adminMsg, err := s.renderer.Admin(ctx, sub)
	if err != nil {
		return mail.Message{}, mail.Message{}, nil, err
	}
	row, err := ledger.BuildRow(sub, requestcontext.Now(ctx))
	if err != nil {
		return mail.Message{}, mail.Message{}, nil, err
	}
	return participantMsg, adminMsg, row, nil
}

func (s *Service) dispatch(ctx context.Context, kind models.MessageKind, msg mail.Message) models.DeliveryResult {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "registration.dispatch",
		trace.WithAttributes(attribute.String("mail.kind", string(kind))))
	defer span.End()

	start := time.Now()
	id, err := s.transport.Send(ctx, msg)
	if err == nil && id == "" {
		err = fmt.Errorf("%s transport returned no message id", s.transport.Name())
	}
	s.metrics.ObserveDelivery(string(kind), s.transport.Name(), err == nil, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(mail.CategoryOf(err)))
		s.logger.WarnContext(ctx, "email dispatch failed",
			"request_id", requestcontext.RequestID(ctx),
			"kind", kind,
			"provider", s.transport.Name(),
			"category", mail.CategoryOf(err),
			"error", err,
		)
		return models.DeliveryResult{Err: err}
	}

	span.SetAttributes(attribute.String("mail.message_id", id))
	s.logger.InfoContext(ctx, "email dispatched",
		"request_id", requestcontext.RequestID(ctx),
		"kind", kind,
		"provider", s.transport.Name(),
		"message_id", id,
	)
	return models.DeliveryResult{MessageID: id}
}

func (s *Service) appendRow(ctx context.Context, row ledger.Row) models.LedgerResult {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.LedgerTimeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "registration.ledger",
		trace.WithAttributes(attribute.String("ledger.backend", s.ledger.Name())))
	defer span.End()

	start := time.Now()
	err := s.ledger.Append(ctx, row)
	s.metrics.ObserveLedgerWrite(s.ledger.Name(), err == nil, time.Since(start))

	result := models.LedgerResult{Backend: s.ledger.Name(), Attempted: true, Err: err}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		s.logger.ErrorContext(ctx, "ledger append failed",
			"request_id", requestcontext.RequestID(ctx),
			"backend", s.ledger.Name(),
			"error", err,
		)
	}
	return result
}
