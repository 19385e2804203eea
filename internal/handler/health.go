package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Provider  string `json:"provider"`
}

// HandleHealth returns the health status of the service. Used for the
// liveness probe. Document CRUD works without a provider, so a missing
// invoker only degrades the status.
func (h *Handler) HandleHealth(c *gin.Context) {
	providerStatus := "unavailable"
	if h.invoker != nil {
		providerStatus = h.invoker.Name()
	}

	status := "healthy"
	if providerStatus == "unavailable" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Provider:  providerStatus,
	})
}

// HandleReadiness returns whether the service is ready to accept
// traffic. Used for the startup probe - stricter than health.
func (h *Handler) HandleReadiness(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "store_not_initialized",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
