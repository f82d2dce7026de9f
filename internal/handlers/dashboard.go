package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/services"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/response"
)

type DashboardHandler struct {
	dashboardService  *services.DashboardService
	statisticsService *services.StatisticsService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	stats := services.NewStatisticsService(db)
	return &DashboardHandler{
		dashboardService:  services.NewDashboardService(db, stats),
		statisticsService: stats,
	}
}

// GetOverview returns counters, breakdowns and the recent activity feed
// GET /api/dashboard
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.dashboardService.GetOverview()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, overview)
}

// GetMapFeatures returns located projects as GeoJSON
// GET /api/dashboard/map
func (h *DashboardHandler) GetMapFeatures(c *gin.Context) {
	collection, err := h.dashboardService.GetMapFeatures()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, collection)
}

// GetStatistics returns the stored statistics snapshot
// GET /api/statistics
func (h *DashboardHandler) GetStatistics(c *gin.Context) {
	snapshot, err := h.statisticsService.Get()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snapshot)
}

// RefreshStatistics recomputes the snapshot on demand
// POST /api/statistics/refresh
func (h *DashboardHandler) RefreshStatistics(c *gin.Context) {
	snapshot, err := h.statisticsService.Recompute()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snapshot)
}
