package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/services"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/response"
)

type LedgerHandler struct {
	ledgerService *services.LedgerService
}

func NewLedgerHandler(ledgerService *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// List returns paginated ledger receipts
// GET /api/ledger
func (h *LedgerHandler) List(c *gin.Context) {
	var req services.LedgerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.ledgerService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByReceipt returns one receipt by its ID
// GET /api/ledger/:receiptId
func (h *LedgerHandler) GetByReceipt(c *gin.Context) {
	record, err := h.ledgerService.GetByReceipt(c.Param("receiptId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, record)
}
