package handler

import (
	"net/http"
	"time"

	"github.com/finerp/backend/internal/application/monitoring"
	"github.com/finerp/backend/internal/interfaces/http/dto"
	"github.com/finerp/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness, database and integration health
type HealthHandler struct {
	BaseHandler
	health  *monitoring.HealthService
	version string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(health *monitoring.HealthService, version string) *HealthHandler {
	return &HealthHandler{health: health, version: version}
}

// Liveness godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /health [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	h.Success(c, gin.H{
		"status":    monitoring.StatusHealthy,
		"version":   h.version,
		"timestamp": time.Now().UTC(),
	})
}

// Database godoc
// @Summary      Database health
// @Description  Connectivity, pool statistics and table row counts. 503 when the database is unreachable.
// @Tags         health
// @Produce      json
// @Success      200 {object} dto.Response{data=monitoring.DatabaseHealth}
// @Failure      503 {object} dto.Response{data=monitoring.DatabaseHealth}
// @Router       /health/database [get]
func (h *HealthHandler) Database(c *gin.Context) {
	report := h.health.Database(c.Request.Context())
	if !report.Connected {
		unavailable(c, report, "Database unavailable")
		return
	}
	h.Success(c, report)
}

// Integrations godoc
// @Summary      Integration health
// @Description  Recent integration error analysis for the caller tenant. 503 when critical.
// @Tags         health
// @Produce      json
// @Success      200 {object} dto.Response{data=monitoring.IntegrationHealth}
// @Failure      503 {object} dto.Response{data=monitoring.IntegrationHealth}
// @Security     BearerAuth
// @Router       /health/integrations [get]
func (h *HealthHandler) Integrations(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	report, err := h.health.Integrations(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if report.Status == monitoring.StatusCritical {
		unavailable(c, report, "Integration dependencies unavailable")
		return
	}
	h.Success(c, report)
}

func unavailable(c *gin.Context, report any, message string) {
	c.JSON(http.StatusServiceUnavailable, dto.Response{
		Success: false,
		Data:    report,
		Error: &dto.ErrorInfo{
			Code:      dto.ErrCodeServiceOffline,
			Message:   message,
			RequestID: middleware.GetRequestID(c),
		},
	})
}
