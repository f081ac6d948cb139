package handlers

import (
	"net/http"

	"cashflow_backend/internal/services"
	"cashflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

// GetStats handles GET /dashboard/stats.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity handles GET /activity?limit=.
func (h *DashboardHandler) GetRecentActivity(c *gin.Context) {
	limit := utils.ClampLimit(c.Query("limit"), services.DefaultActivityLimit, services.MaxActivityLimit)
	records, err := h.dashboardService.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch recent activity")
		return
	}
	c.JSON(http.StatusOK, records)
}
