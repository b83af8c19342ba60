// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)

	// Place search metrics
	IncSearch(mode string) // mode: "demo" or "live"
	IncProviderError(op string)
	ObserveProviderDuration(op string, duration time.Duration)

	// Lead management metrics
	IncLeadCreated()
	IncLeadDuplicate()
	IncLeadUpdated()
	IncLeadDeleted()

	// Outreach metrics
	IncEmailSent(status string) // status: "sent" or "failed"

	// Storage metrics
	SetStorageLive(live bool)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
