package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/services"
)

// HealthHandler reports the state of the registry's subsystems.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Queue mode
	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	// Unanchored ledger receipts
	var pendingReceipts int64
	models.GetDB().Model(&models.LedgerRecord{}).
		Where("status = ?", models.LedgerPending).
		Count(&pendingReceipts)

	// Open verifications
	var pendingVerifications int64
	models.GetDB().Model(&models.ProjectVerification{}).
		Where("status = ?", models.VerificationPending).
		Count(&pendingVerifications)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "carbontrack-registry",
		"components": gin.H{
			"database":              dbStatus,
			"queue_mode":            queueMode,
			"pending_receipts":      pendingReceipts,
			"pending_verifications": pendingVerifications,
		},
	})
}
