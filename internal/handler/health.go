package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Briancute/local-lead-finder/internal/handler/dto"
	"github.com/Briancute/local-lead-finder/internal/repository"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// StorageStatus reports which store serves requests and what the
// in-memory store holds.
type StorageStatus interface {
	Live() bool
	Stats() repository.MemoryStats
}

const databaseDescription = "MongoDB Atlas with In-Memory Fallback"

// Values of HealthResponse.DatabaseMode.
const (
	DatabaseModeMongo  = "mongodb"
	DatabaseModeMemory = "in-memory"
)

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db      HealthChecker
	cache   HealthChecker
	storage StorageStatus
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for db or cache when they are not connected.
func NewHealthHandler(db, cache HealthChecker, storage StorageStatus) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		storage: storage,
		now:     time.Now,
	}
}

// Health reports that the API is up, which store is serving requests and
// the in-memory store counts.
//
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	var stats repository.MemoryStats
	mode := DatabaseModeMemory
	if h.storage != nil {
		stats = h.storage.Stats()
		if h.storage.Live() {
			mode = DatabaseModeMongo
		}
	}
	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Status:        "ok",
		Message:       "LeadFinder API is running",
		Database:      databaseDescription,
		DatabaseMode:  mode,
		InMemoryStats: stats,
		Timestamp:     h.now().UTC(),
	})
}

// CheckResponse represents a liveness or readiness result.
type CheckResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz reports liveness only. No dependency checks.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CheckResponse{Status: "ok"})
}

// Readyz checks the optional backends. A backend that is not configured
// does not fail readiness since the API runs on the memory store without it.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	check := func(name string, c HealthChecker) {
		if c == nil {
			checks[name] = "not configured"
			return
		}
		if err := c.Ping(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}
	check("mongodb", h.db)
	check("redis", h.cache)

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, CheckResponse{Status: status, Checks: checks})
}
