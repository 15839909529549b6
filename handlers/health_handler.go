package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/joed123/GoogleCloudCourseManager/utils"
	"go.uber.org/zap"
)

// DependencyChecker reports whether an external dependency is reachable
type DependencyChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexResponse is the root banner response
type IndexResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles liveness and readiness HTTP requests
type HealthHandler struct {
	db     DependencyChecker
	store  DependencyChecker
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db, store DependencyChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		store:  store,
		logger: logger,
	}
}

// HandleIndex handles GET /
func (h *HealthHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, IndexResponse{Message: "Tarpaulin API is up"})
}

// HandleHealth handles GET /healthz. Always 200 while the process runs.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles GET /readyz, verifying both stores
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if err := h.db.HealthCheck(ctx); err != nil {
		h.logger.Warn("database readiness check failed", zap.Error(err))
		checks["database"] = "unhealthy"
		allHealthy = false
	} else {
		checks["database"] = "healthy"
	}

	if err := h.store.HealthCheck(ctx); err != nil {
		h.logger.Warn("blob store readiness check failed", zap.Error(err))
		checks["blobstore"] = "unhealthy"
		allHealthy = false
	} else {
		checks["blobstore"] = "healthy"
	}

	status := "ready"
	code := http.StatusOK
	if !allHealthy {
		status = "not ready"
		code = http.StatusServiceUnavailable
	}

	_ = utils.WriteJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
