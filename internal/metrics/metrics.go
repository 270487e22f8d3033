package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics метрики HTTP слоя и модерации. У каждого экземпляра свой реестр.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	TransitionsTotal          *prometheus.CounterVec
	SweepRunsTotal            *prometheus.CounterVec
	SweepReactivatedTotal     prometheus.Counter
	AuditFailuresTotal        prometheus.Counter
	NotificationFailuresTotal prometheus.Counter
}

// New создаёт метрики с префиксом namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "status_transitions_total",
				Help:      "Admin status transitions by entity, action and outcome",
			},
			[]string{"entity", "action", "outcome"},
		),
		SweepRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suspension_sweep_runs_total",
				Help:      "Suspension expiry sweep runs by outcome",
			},
			[]string{"outcome"},
		),
		SweepReactivatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suspension_sweep_reactivated_total",
				Help:      "Users reactivated by the suspension expiry sweep",
			},
		),
		AuditFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_write_failures_total",
				Help:      "Audit log entries that could not be written",
			},
		),
		NotificationFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notification_failures_total",
				Help:      "Status emails that could not be delivered",
			},
		),
	}
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry нужен тестам для чтения значений.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTransition учитывает попытку смены статуса.
func (m *Metrics) ObserveTransition(entity, action, outcome string) {
	m.TransitionsTotal.WithLabelValues(entity, action, outcome).Inc()
}

// ObserveSweep учитывает прогон снятия истёкших приостановок.
func (m *Metrics) ObserveSweep(reactivated int, err error) {
	if err != nil {
		m.SweepRunsTotal.WithLabelValues("error").Inc()
		return
	}
	m.SweepRunsTotal.WithLabelValues("ok").Inc()
	m.SweepReactivatedTotal.Add(float64(reactivated))
}

func (m *Metrics) AuditFailed() {
	m.AuditFailuresTotal.Inc()
}

func (m *Metrics) NotificationFailed() {
	m.NotificationFailuresTotal.Inc()
}
