package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const backendHealthTimeout = 3 * time.Second

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string `json:"status" example:"healthy"`
	Backend        string `json:"backend" example:"connected"`
	BackendURL     string `json:"backend_url" example:"http://localhost:5000"`
	BackendMessage string `json:"backend_message,omitempty"`
	Sessions       int    `json:"sessions"`
	Snapshots      *int   `json:"snapshots,omitempty"`
}

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Reports this server's state and whether the analytics backend answers its own health check. The server stays healthy when the backend is down; it is reported as degraded.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := HealthResponse{
		Status:     "healthy",
		Backend:    "connected",
		BackendURL: h.backend.BaseURL(),
		Sessions:   h.sessions.Count(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), backendHealthTimeout)
	defer cancel()
	resp, err := h.backend.Health(ctx)
	switch {
	case err != nil:
		status.Status = "degraded"
		status.Backend = "unreachable"
		status.BackendMessage = err.Error()
	case resp.Status != "healthy":
		status.Status = "degraded"
		status.Backend = resp.Status
		status.BackendMessage = resp.Message
	default:
		status.BackendMessage = resp.Message
	}

	if h.snapshots != nil {
		n, err := h.snapshots.CountSnapshots()
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to count snapshots")
		} else {
			status.Snapshots = &n
		}
	}

	c.JSON(http.StatusOK, status)
}

// MetricsHandler exposes Prometheus metrics
// @Summary      Metrics
// @Tags         Health
// @Produce      plain
// @Success      200  {string}  string  "Prometheus exposition format"
// @Router       /metrics [get]
func (h *Handlers) MetricsHandler(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.metrics.ServeHTTP(c.Writer, c.Request)
}
