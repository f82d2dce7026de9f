package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/apperrors"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/logger"
)

// LedgerService maintains the simulated blockchain sink. Every resolved
// verification and credit mutation produces a receipt; anchoring computes a
// deterministic transaction hash over the receipt payload, either through
// the async queue or inline when Redis is disabled.
type LedgerService struct {
	db      *gorm.DB
	queue   TaskQueue
	enabled bool
}

func NewLedgerService(db *gorm.DB, queue TaskQueue, enabled bool) *LedgerService {
	return &LedgerService{db: db, queue: queue, enabled: enabled}
}

// Record creates a pending receipt and schedules it for anchoring. A nil
// return with no error means the ledger is disabled.
func (s *LedgerService) Record(entityType, entityID, action string, payload map[string]interface{}) (*models.LedgerRecord, error) {
	if !s.enabled {
		return nil, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	record := &models.LedgerRecord{
		ReceiptID:  uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Payload:    string(body),
		Status:     models.LedgerPending,
		CreatedAt:  time.Now(),
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}

	task := &AnchorTask{LedgerRecordID: record.ID, ReceiptID: record.ReceiptID}
	if s.queue != nil {
		if err := s.queue.Enqueue(task); err != nil {
			logger.Warnf("[Ledger] enqueue failed for receipt %s, anchoring inline: %v", record.ReceiptID, err)
			if err := s.Anchor(context.Background(), record.ID); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.Anchor(context.Background(), record.ID); err != nil {
			return nil, err
		}
	}

	return record, nil
}

// Anchor computes the transaction hash for a pending receipt and marks it
// anchored. Anchoring an already-anchored receipt is a no-op so queue
// retries stay idempotent.
func (s *LedgerService) Anchor(ctx context.Context, recordID uint) error {
	var record models.LedgerRecord
	if err := s.db.WithContext(ctx).First(&record, recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("ledger record %d not found", recordID)
		}
		return err
	}

	if record.Status == models.LedgerAnchored {
		return nil
	}

	now := time.Now()
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%d",
		record.ReceiptID, record.EntityType, record.EntityID, record.Payload, now.UnixNano())))

	return s.db.WithContext(ctx).Model(&record).Updates(map[string]interface{}{
		"tx_hash":     hex.EncodeToString(sum[:]),
		"status":      models.LedgerAnchored,
		"anchored_at": now,
	}).Error
}

// Process is the queue/worker processor for anchor tasks.
func (s *LedgerService) Process(ctx context.Context, task *AnchorTask) error {
	return s.Anchor(ctx, task.LedgerRecordID)
}

type LedgerListRequest struct {
	Page       int    `form:"page" binding:"min=1"`
	PageSize   int    `form:"page_size" binding:"min=1,max=100"`
	EntityType string `form:"entity_type"`
	EntityID   string `form:"entity_id"`
	Status     string `form:"status"`
}

type LedgerListResponse struct {
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.LedgerRecord `json:"items"`
}

func (s *LedgerService) List(req *LedgerListRequest) (*LedgerListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var records []models.LedgerRecord
	var total int64

	query := s.db.Model(&models.LedgerRecord{})

	if req.EntityType != "" {
		query = query.Where("entity_type = ?", req.EntityType)
	}
	if req.EntityID != "" {
		query = query.Where("entity_id = ?", req.EntityID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return &LedgerListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    records,
	}, nil
}

func (s *LedgerService) GetByReceipt(receiptID string) (*models.LedgerRecord, error) {
	var record models.LedgerRecord
	if err := s.db.Where("receipt_id = ?", receiptID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("receipt %s not found", receiptID)
		}
		return nil, err
	}
	return &record, nil
}
