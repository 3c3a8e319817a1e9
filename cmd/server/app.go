package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"registrar/internal/health"
	httpapi "registrar/internal/http"
	"registrar/internal/ledger"
	"registrar/internal/mail"
	"registrar/internal/platform/config"
	platformmetrics "registrar/internal/platform/metrics"
	"registrar/internal/platform/tracing"
	"registrar/internal/registration"
	regmetrics "registrar/internal/registration/metrics"
	"registrar/internal/registration/models"
	"registrar/internal/registration/notify"
	"registrar/internal/registration/service"
)

// app holds the wired dependencies and the resources that need closing.
type app struct {
	service *registration.Service
	router  http.Handler
	tracing *tracing.Provider
	closers []io.Closer
}

// buildApp wires config into services. Missing mail or ledger credentials
// are logged, not fatal: the server still starts and answers health checks.
func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	tp, err := tracing.NewProvider(cfg.Tracing.Exporter)
	if err != nil {
		return nil, err
	}

	renderer, err := notify.NewRenderer(cfg.Event, cfg.Mail)
	if err != nil {
		return nil, err
	}

	var transport service.Transport
	if t, err := mail.New(cfg.Mail, logger); err != nil {
		logger.Warn("mail transport not configured; registrations will be refused",
			"provider", cfg.Mail.Provider,
			"error", err,
		)
	} else {
		transport = t
		logger.Info("mail transport ready", "provider", t.Name())
	}

	writer, err := ledger.New(ctx, cfg.Ledger)
	if err != nil {
		logger.Error("ledger unavailable; continuing without it",
			"backend", cfg.Ledger.Backend,
			"error", err,
		)
	} else if !ledger.Enabled(writer) {
		logger.Info("ledger disabled", "backend", cfg.Ledger.Backend)
	} else {
		logger.Info("ledger ready", "backend", writer.Name())
	}

	a := &app{tracing: tp}
	if c, ok := writer.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.service = registration.NewService(transport, writer, renderer,
		service.Config{
			Policy:             models.Policy{StrictFields: cfg.Registration.StrictFields},
			SendTimeout:        cfg.Mail.SendTimeout,
			LedgerTimeout:      cfg.Ledger.Timeout,
			FailOnTotalFailure: cfg.Mail.FailOnTotalFailure,
		},
		service.WithLogger(logger),
		service.WithMetrics(regmetrics.New(reg)),
		service.WithTracer(tp.Tracer()),
	)

	a.router = httpapi.NewRouter(httpapi.Deps{
		Logger:         logger,
		Metrics:        platformmetrics.New(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Handlers: []httpapi.RouteRegistrar{
			health.New(),
			registration.NewHandler(a.service, logger),
		},
	})
	return a, nil
}

// Close releases ledger connections and flushes spans.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	errs = append(errs, a.tracing.Shutdown(ctx))
	return errors.Join(errs...)
}
