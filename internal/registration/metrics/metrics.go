package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission results.
const (
	ResultAccepted    = "accepted"
	ResultInvalid     = "invalid"
	ResultUnavailable = "unavailable"
	ResultFailed      = "failed"
)

// Metrics provides observability for the registration pipeline.
type Metrics struct {
	// Submissions by result
	Submissions *prometheus.CounterVec

	// Deliveries by message kind, outcome and provider
	Deliveries *prometheus.CounterVec

	// Ledger writes by backend and outcome
	LedgerWrites *prometheus.CounterVec

	// Per-message dispatch latency
	DispatchLatency *prometheus.HistogramVec

	// Ledger append latency
	LedgerLatency *prometheus.HistogramVec
}

// New creates the registration metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_submissions_total",
			Help: "Total registration submissions by result",
		}, []string{"result"}), // result: "accepted", "invalid", "unavailable", "failed"

		Deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_mail_deliveries_total",
			Help: "Total email dispatches by message kind, outcome and provider",
		}, []string{"kind", "outcome", "provider"}),

		LedgerWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_ledger_writes_total",
			Help: "Total ledger appends by backend and outcome",
		}, []string{"backend", "outcome"}),

		DispatchLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registrar_mail_dispatch_duration_seconds",
			Help:    "Duration of a single email dispatch by message kind",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		}, []string{"kind"}),

		LedgerLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registrar_ledger_write_duration_seconds",
			Help:    "Duration of a ledger append by backend",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"backend"}),
	}
}

// IncrementSubmission records one submission result.
func (m *Metrics) IncrementSubmission(result string) {
	if m != nil {
		m.Submissions.WithLabelValues(result).Inc()
	}
}

// ObserveDelivery records a dispatch outcome and its latency.
func (m *Metrics) ObserveDelivery(kind, provider string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.Deliveries.WithLabelValues(kind, outcome(ok), provider).Inc()
	m.DispatchLatency.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveLedgerWrite records an append outcome and its latency.
func (m *Metrics) ObserveLedgerWrite(backend string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.LedgerWrites.WithLabelValues(backend, outcome(ok)).Inc()
	m.LedgerLatency.WithLabelValues(backend).Observe(d.Seconds())
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
