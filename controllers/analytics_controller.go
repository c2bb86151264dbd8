// controllers/analytics_controller.go
package controllers

import (
	"net/http"

	"symptracker/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsController struct {
	Svc    *services.AnalyticsService
	Logger *zap.Logger
}

func NewAnalyticsController(svc *services.AnalyticsService, logger *zap.Logger) *AnalyticsController {
	return &AnalyticsController{Svc: svc, Logger: logger}
}

func (h *AnalyticsController) GetDashboard(c *gin.Context) {
	out, err := h.Svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, "Failed to build dashboard", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AnalyticsController) GetStatistics(c *gin.Context) {
	out, err := h.Svc.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, "Failed to compute statistics", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
