package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/services"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/response"
)

type MethodologyHandler struct {
	methodologyService *services.MethodologyService
}

func NewMethodologyHandler(db *gorm.DB) *MethodologyHandler {
	return &MethodologyHandler{methodologyService: services.NewMethodologyService(db)}
}

// GET /api/methodologies
func (h *MethodologyHandler) List(c *gin.Context) {
	methodologies, err := h.methodologyService.List(c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, methodologies)
}

// POST /api/methodologies
func (h *MethodologyHandler) Create(c *gin.Context) {
	var req services.CreateMethodologyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	methodology, err := h.methodologyService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, methodology)
}

// PUT /api/methodologies/:id
func (h *MethodologyHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid methodology id")
		return
	}

	var req services.UpdateMethodologyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	methodology, err := h.methodologyService.Update(uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, methodology)
}

// DELETE /api/methodologies/:id
func (h *MethodologyHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid methodology id")
		return
	}

	if err := h.methodologyService.Delete(uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "methodology deleted"})
}
