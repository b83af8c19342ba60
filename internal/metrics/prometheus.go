package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leadfinder"

// PrometheusRecorder implements Recorder on a dedicated registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	searches         *prometheus.CounterVec
	providerErrors   *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	leads            *prometheus.CounterVec
	emails           *prometheus.CounterVec
	storageLive      prometheus.Gauge
}

// NewPrometheus creates a recorder with its own registry, including the
// Go runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "places",
			Name:      "searches_total",
			Help:      "Place searches by gateway mode.",
		}, []string{"mode"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "places",
			Name:      "provider_errors_total",
			Help:      "Failed place provider calls.",
		}, []string{"op"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "places",
			Name:      "provider_duration_seconds",
			Help:      "Duration of place provider calls.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
		}, []string{"op"}),
		leads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "events_total",
			Help:      "Lead lifecycle events.",
		}, []string{"event"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outreach",
			Name:      "emails_total",
			Help:      "Outreach emails by outcome.",
		}, []string{"status"}),
		storageLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "mongodb_live",
			Help:      "1 when requests are served from MongoDB, 0 when from the in-memory store.",
		}),
	}

	p.registry.MustRegister(
		p.httpRequests,
		p.httpDuration,
		p.searches,
		p.providerErrors,
		p.providerDuration,
		p.leads,
		p.emails,
		p.storageLive,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return p
}

// Handler returns an HTTP handler exposing the registry.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records a handled request.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncSearch counts a search by gateway mode.
func (p *PrometheusRecorder) IncSearch(mode string) {
	p.searches.WithLabelValues(mode).Inc()
}

// IncProviderError counts a failed provider call.
func (p *PrometheusRecorder) IncProviderError(op string) {
	p.providerErrors.WithLabelValues(op).Inc()
}

// ObserveProviderDuration records a provider call duration.
func (p *PrometheusRecorder) ObserveProviderDuration(op string, duration time.Duration) {
	p.providerDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// IncLeadCreated increments lead created counter.
func (p *PrometheusRecorder) IncLeadCreated() { p.leads.WithLabelValues("created").Inc() }

// IncLeadDuplicate increments rejected duplicate counter.
func (p *PrometheusRecorder) IncLeadDuplicate() { p.leads.WithLabelValues("duplicate").Inc() }

// IncLeadUpdated increments lead updated counter.
func (p *PrometheusRecorder) IncLeadUpdated() { p.leads.WithLabelValues("updated").Inc() }

// IncLeadDeleted increments lead deleted counter.
func (p *PrometheusRecorder) IncLeadDeleted() { p.leads.WithLabelValues("deleted").Inc() }

// IncEmailSent counts an outreach attempt by outcome.
func (p *PrometheusRecorder) IncEmailSent(status string) {
	p.emails.WithLabelValues(status).Inc()
}

// SetStorageLive records the current storage backend.
func (p *PrometheusRecorder) SetStorageLive(live bool) {
	if live {
		p.storageLive.Set(1)
		return
	}
	p.storageLive.Set(0)
}
