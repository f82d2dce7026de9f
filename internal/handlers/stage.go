package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/services"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/response"
)

type StageHandler struct {
	stageService *services.StageService
}

func NewStageHandler(db *gorm.DB) *StageHandler {
	return &StageHandler{stageService: services.NewStageService(db)}
}

// List returns all stages in pipeline order
// GET /api/verification-stages
func (h *StageHandler) List(c *gin.Context) {
	stages, err := h.stageService.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stages)
}

// POST /api/verification-stages
func (h *StageHandler) Create(c *gin.Context) {
	var req services.CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	stage, err := h.stageService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, stage)
}

// PUT /api/verification-stages/:id
func (h *StageHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid stage id")
		return
	}

	var req services.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	stage, err := h.stageService.Update(uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stage)
}

// DELETE /api/verification-stages/:id
func (h *StageHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid stage id")
		return
	}

	if err := h.stageService.Delete(uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "stage deleted"})
}
