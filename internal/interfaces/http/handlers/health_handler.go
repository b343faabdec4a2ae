package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/credscore/internal/application/dto"
	"github.com/turtacn/credscore/pkg/constants"
	"github.com/turtacn/credscore/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const checkTimeout = 2 * time.Second

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelStatus reports the scorecard state.
type ModelStatus interface {
	Loaded() bool
	Version() string
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	model ModelStatus
	deps  map[string]Pinger
	log   logger.Logger
}

// NewHealthHandler creates a new HealthHandler. deps maps a check name to its dependency; nil entries are skipped.
func NewHealthHandler(model ModelStatus, deps map[string]Pinger, log logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	filtered := make(map[string]Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			filtered[name] = p
		}
	}
	return &HealthHandler{model: model, deps: filtered, log: log.WithComponent("health_handler")}
}

// Root godoc
// @Summary      Service entry point
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.RootResponse
// @Router       / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RootResponse{
		Message: constants.WelcomeMessage,
		Docs:    "/docs",
		Health:  "/health",
	})
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Always 200; status is "degraded" when the model is not loaded or a dependency fails.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp, _ := h.evaluate(c.Request.Context())
	c.JSON(http.StatusOK, resp)
}

// ReadinessCheck godoc
// @Summary      Readiness Check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	resp, ready := h.evaluate(c.Request.Context())
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// LivenessCheck reports that the process is serving.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h *HealthHandler) evaluate(ctx context.Context) (*dto.HealthResponse, bool) {
	checks := h.performChecks(ctx)
	loaded := h.model.Loaded()

	ready := loaded
	for _, s := range checks {
		if s != "ok" {
			ready = false
		}
	}

	resp := &dto.HealthResponse{
		Status:      "healthy",
		ModelLoaded: loaded,
		Version:     h.model.Version(),
		Checks:      checks,
	}
	if !ready {
		resp.Status = "degraded"
	}
	return resp, ready
}

// performChecks pings every dependency concurrently.
func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	if len(h.deps) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var mu sync.Mutex
	checks := make(map[string]string, len(h.deps))
	var g errgroup.Group
	for name, dep := range h.deps {
		g.Go(func() error {
			status := "ok"
			if err := dep.Ping(ctx); err != nil {
				h.log.Warn(ctx, "Dependency check failed", logger.String("dependency", name), logger.Err(err))
				status = "error: " + err.Error()
			}
			mu.Lock()
			checks[name] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return checks
}

//Personal.AI order the ending
