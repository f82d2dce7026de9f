package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/middleware"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/services"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/response"
)

type CreditHandler struct {
	creditService *services.CreditService
}

func NewCreditHandler(creditService *services.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// List returns paginated credits
// GET /api/credits
func (h *CreditHandler) List(c *gin.Context) {
	var req services.CreditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.creditService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GET /api/credits/:id
func (h *CreditHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid credit id")
		return
	}

	credit, err := h.creditService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, credit)
}

// GetBySerial returns a credit by its serial number
// GET /api/credits/serial/:serial
func (h *CreditHandler) GetBySerial(c *gin.Context) {
	credit, err := h.creditService.GetBySerial(c.Param("serial"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, credit)
}

// History returns a credit's lifecycle events
// GET /api/credits/:id/history
func (h *CreditHandler) History(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid credit id")
		return
	}

	events, err := h.creditService.History(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, events)
}

// Issue creates a new credit batch
// POST /api/credits
func (h *CreditHandler) Issue(c *gin.Context) {
	var req services.IssueCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	credit, err := h.creditService.Issue(&req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, credit)
}

// Retire removes a credit batch from circulation
// POST /api/credits/:id/retire
func (h *CreditHandler) Retire(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid credit id")
		return
	}

	credit, err := h.creditService.Retire(uint(id), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, credit)
}

// Transfer moves a credit batch to a new owner
// POST /api/credits/:id/transfer
func (h *CreditHandler) Transfer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid credit id")
		return
	}

	var req services.TransferCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	credit, err := h.creditService.Transfer(uint(id), &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, credit)
}
