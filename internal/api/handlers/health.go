package handlers

import (
	"net/http"

	"costservice/internal/models"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers liveness checks
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health godoc
// @Summary Health check
// @Description Reports that the process is alive. No dependencies are checked.
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 405 {object} models.ErrorResponse "Method not allowed"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: models.StatusHealthy})
}
