package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/middleware"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/services"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/response"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{activityService: services.NewActivityService(db)}
}

// List returns the reverse-chronological activity feed
// GET /api/activity
func (h *ActivityHandler) List(c *gin.Context) {
	var req services.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.activityService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

type recordActivityRequest struct {
	Action     string `json:"action" binding:"required"`
	EntityType string `json:"entity_type" binding:"required"`
	EntityID   string `json:"entity_id" binding:"required"`
}

// Record appends an activity entry for an external action
// POST /api/activity
func (h *ActivityHandler) Record(c *gin.Context) {
	var req recordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	entry, err := h.activityService.Record(req.Action, req.EntityType, req.EntityID, &userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}
