package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	HTTPRequests          uint64
	SearchesDemo          uint64
	SearchesLive          uint64
	ProviderErrors        uint64
	ProviderDurationCount uint64
	LeadsCreated          uint64
	LeadDuplicates        uint64
	LeadsUpdated          uint64
	LeadsDeleted          uint64
	EmailsSent            uint64
	EmailsFailed          uint64
	StorageLive           bool
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	httpRequests          atomic.Uint64
	searchesDemo          atomic.Uint64
	searchesLive          atomic.Uint64
	providerErrors        atomic.Uint64
	providerDurationCount atomic.Uint64
	leadsCreated          atomic.Uint64
	leadDuplicates        atomic.Uint64
	leadsUpdated          atomic.Uint64
	leadsDeleted          atomic.Uint64
	emailsSent            atomic.Uint64
	emailsFailed          atomic.Uint64
	storageLive           atomic.Bool
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		HTTPRequests:          m.httpRequests.Load(),
		SearchesDemo:          m.searchesDemo.Load(),
		SearchesLive:          m.searchesLive.Load(),
		ProviderErrors:        m.providerErrors.Load(),
		ProviderDurationCount: m.providerDurationCount.Load(),
		LeadsCreated:          m.leadsCreated.Load(),
		LeadDuplicates:        m.leadDuplicates.Load(),
		LeadsUpdated:          m.leadsUpdated.Load(),
		LeadsDeleted:          m.leadsDeleted.Load(),
		EmailsSent:            m.emailsSent.Load(),
		EmailsFailed:          m.emailsFailed.Load(),
		StorageLive:           m.storageLive.Load(),
	}
}

// ObserveHTTPRequest counts a handled request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.Add(1)
}

// IncSearch counts a search by gateway mode.
func (m *InMemoryRecorder) IncSearch(mode string) {
	if mode == "live" {
		m.searchesLive.Add(1)
		return
	}
	m.searchesDemo.Add(1)
}

// IncProviderError counts a failed provider call.
func (m *InMemoryRecorder) IncProviderError(op string) {
	m.providerErrors.Add(1)
}

// ObserveProviderDuration counts a timed provider call.
func (m *InMemoryRecorder) ObserveProviderDuration(op string, duration time.Duration) {
	m.providerDurationCount.Add(1)
}

// IncLeadCreated increments lead created counter.
func (m *InMemoryRecorder) IncLeadCreated() {
	m.leadsCreated.Add(1)
}

// IncLeadDuplicate increments rejected duplicate counter.
func (m *InMemoryRecorder) IncLeadDuplicate() {
	m.leadDuplicates.Add(1)
}

// IncLeadUpdated increments lead updated counter.
func (m *InMemoryRecorder) IncLeadUpdated() {
	m.leadsUpdated.Add(1)
}

// IncLeadDeleted increments lead deleted counter.
func (m *InMemoryRecorder) IncLeadDeleted() {
	m.leadsDeleted.Add(1)
}

// IncEmailSent counts an outreach attempt by outcome.
func (m *InMemoryRecorder) IncEmailSent(status string) {
	if status == "sent" {
		m.emailsSent.Add(1)
		return
	}
	m.emailsFailed.Add(1)
}

// SetStorageLive records the current storage backend.
func (m *InMemoryRecorder) SetStorageLive(live bool) {
	m.storageLive.Store(live)
}
