package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/middleware"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/services"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/response"
)

type VerificationHandler struct {
	verificationService *services.VerificationService
}

func NewVerificationHandler(verificationService *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// List returns paginated verifications
// GET /api/verifications
func (h *VerificationHandler) List(c *gin.Context) {
	var req services.VerificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.verificationService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GET /api/verifications/:id
func (h *VerificationHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid verification id")
		return
	}

	verification, err := h.verificationService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, verification)
}

// Create opens a verification request for a project
// POST /api/verifications
func (h *VerificationHandler) Create(c *gin.Context) {
	var req services.CreateVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	verification, err := h.verificationService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, verification)
}

// AdvanceStage moves a pending verification to its next stage
// POST /api/verifications/:id/advance
func (h *VerificationHandler) AdvanceStage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid verification id")
		return
	}

	verification, err := h.verificationService.AdvanceStage(uint(id), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, verification)
}

// Resolve settles a pending verification with a terminal outcome
// POST /api/verifications/:id/resolve
func (h *VerificationHandler) Resolve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid verification id")
		return
	}

	var req services.ResolveVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	verification, err := h.verificationService.Resolve(uint(id), &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, verification)
}
