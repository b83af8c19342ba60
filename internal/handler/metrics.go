package handler

import (
	"fmt"
	"net/http"

	"github.com/Briancute/local-lead-finder/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "leadfinder_http_requests_total %d\n", snap.HTTPRequests)

	writeMetric(w, "leadfinder_searches_total{mode=\"demo\"} %d\n", snap.SearchesDemo)
	writeMetric(w, "leadfinder_searches_total{mode=\"live\"} %d\n", snap.SearchesLive)
	writeMetric(w, "leadfinder_provider_errors_total %d\n", snap.ProviderErrors)
	writeMetric(w, "leadfinder_provider_duration_seconds_count %d\n", snap.ProviderDurationCount)

	writeMetric(w, "leadfinder_leads_total{event=\"created\"} %d\n", snap.LeadsCreated)
	writeMetric(w, "leadfinder_leads_total{event=\"duplicate\"} %d\n", snap.LeadDuplicates)
	writeMetric(w, "leadfinder_leads_total{event=\"updated\"} %d\n", snap.LeadsUpdated)
	writeMetric(w, "leadfinder_leads_total{event=\"deleted\"} %d\n", snap.LeadsDeleted)

	writeMetric(w, "leadfinder_emails_total{status=\"sent\"} %d\n", snap.EmailsSent)
	writeMetric(w, "leadfinder_emails_total{status=\"failed\"} %d\n", snap.EmailsFailed)

	live := 0
	if snap.StorageLive {
		live = 1
	}
	writeMetric(w, "leadfinder_storage_live %d\n", live)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
