package services

import (
	"time"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/apperrors"
	"gorm.io/gorm"
)

// ActivityService maintains the append-only activity feed. Entries are
// written alongside every state-changing domain operation and are never
// updated or deleted.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record appends one activity entry. It validates shape only; the caller is
// responsible for the referenced entity actually existing.
func (s *ActivityService) Record(action, entityType, entityID string, userID *uint) (*models.ActivityLog, error) {
	if action == "" {
		return nil, apperrors.Validation("action is required")
	}
	if entityType == "" {
		return nil, apperrors.Validation("entity_type is required")
	}
	if entityID == "" {
		return nil, apperrors.Validation("entity_id is required")
	}

	entry := &models.ActivityLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		CreatedAt:  time.Now(),
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// recordActivityTx is Record inside an existing transaction, used by services that
// append the entry atomically with the mutation it describes.
func recordActivityTx(tx *gorm.DB, action, entityType, entityID string, userID *uint) error {
	return tx.Create(&models.ActivityLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		CreatedAt:  time.Now(),
	}).Error
}

type ActivityListRequest struct {
	Page       int    `form:"page" binding:"min=1"`
	PageSize   int    `form:"page_size" binding:"min=1,max=100"`
	Action     string `form:"action"`
	EntityType string `form:"entity_type"`
	EntityID   string `form:"entity_id"`
	UserID     uint   `form:"user_id"`
}

type ActivityListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []models.ActivityLog `json:"items"`
}

// List returns a reverse-chronological page of the feed. Each call queries
// afresh, so callers always see a consistent snapshot rather than a live
// stream.
func (s *ActivityService) List(req *ActivityListRequest) (*ActivityListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var entries []models.ActivityLog
	var total int64

	query := s.db.Model(&models.ActivityLog{})

	if req.Action != "" {
		query = query.Where("action = ?", req.Action)
	}
	if req.EntityType != "" {
		query = query.Where("entity_type = ?", req.EntityType)
	}
	if req.EntityID != "" {
		query = query.Where("entity_id = ?", req.EntityID)
	}
	if req.UserID != 0 {
		query = query.Where("user_id = ?", req.UserID)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}

	return &ActivityListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    entries,
	}, nil
}

// Recent returns the newest n entries for the dashboard feed.
func (s *ActivityService) Recent(n int) ([]models.ActivityLog, error) {
	if n <= 0 {
		n = 10
	}
	var entries []models.ActivityLog
	if err := s.db.Order("created_at DESC, id DESC").Limit(n).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
