package handlers

import (
	"net/http"

	"barkbox/utils"

	"github.com/gin-gonic/gin"
)

// HealthReporter exposes the latest dependency check.
type HealthReporter interface {
	Status() utils.HealthStatus
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	Monitor HealthReporter
}

func NewHealthHandler(m HealthReporter) *HealthHandler {
	return &HealthHandler{Monitor: m}
}

// Health returns 200 when every dependency answered its last ping, 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.Monitor.Status()
	code, state := http.StatusOK, "ok"
	if !status.Healthy() {
		code, state = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(code, gin.H{
		"status":    state,
		"message":   "Hi, I'm BarkBox",
		"mongo":     status.Mongo,
		"redis":     status.Redis,
		"checkedAt": status.CheckedAt,
	})
}
