package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}

// IncSearch is a no-op.
func (n *NoopRecorder) IncSearch(mode string) {}

// IncProviderError is a no-op.
func (n *NoopRecorder) IncProviderError(op string) {}

// ObserveProviderDuration is a no-op.
func (n *NoopRecorder) ObserveProviderDuration(op string, duration time.Duration) {}

// IncLeadCreated is a no-op.
func (n *NoopRecorder) IncLeadCreated() {}

// IncLeadDuplicate is a no-op.
func (n *NoopRecorder) IncLeadDuplicate() {}

// IncLeadUpdated is a no-op.
func (n *NoopRecorder) IncLeadUpdated() {}

// IncLeadDeleted is a no-op.
func (n *NoopRecorder) IncLeadDeleted() {}

// IncEmailSent is a no-op.
func (n *NoopRecorder) IncEmailSent(status string) {}

// SetStorageLive is a no-op.
func (n *NoopRecorder) SetStorageLive(live bool) {}
