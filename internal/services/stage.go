package services

import (
	"errors"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/apperrors"
	"gorm.io/gorm"
)

// StageService manages the ordered verification stage sequence. Stages are
// reference data: the pipeline reads them sorted by sort_order, so order
// values must stay unique.
type StageService struct {
	db *gorm.DB
}

func NewStageService(db *gorm.DB) *StageService {
	return &StageService{db: db}
}

type CreateStageRequest struct {
	Name        string `json:"name" binding:"required"`
	Order       int    `json:"order" binding:"required,min=1"`
	Description string `json:"description"`
}

type UpdateStageRequest struct {
	Name        string `json:"name"`
	Order       *int   `json:"order"`
	Description string `json:"description"`
}

// List returns all stages in pipeline order.
func (s *StageService) List() ([]models.VerificationStage, error) {
	var stages []models.VerificationStage
	if err := s.db.Order("sort_order").Find(&stages).Error; err != nil {
		return nil, err
	}
	return stages, nil
}

func (s *StageService) GetByID(id uint) (*models.VerificationStage, error) {
	var stage models.VerificationStage
	if err := s.db.First(&stage, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("verification stage %d not found", id)
		}
		return nil, err
	}
	return &stage, nil
}

func (s *StageService) Create(req *CreateStageRequest) (*models.VerificationStage, error) {
	var existing models.VerificationStage
	if err := s.db.Where("name = ? OR sort_order = ?", req.Name, req.Order).
		First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("stage name or order already in use")
	}

	stage := models.VerificationStage{
		Name:        req.Name,
		SortOrder:   req.Order,
		Description: req.Description,
	}
	if err := s.db.Create(&stage).Error; err != nil {
		return nil, err
	}
	return &stage, nil
}

func (s *StageService) Update(id uint, req *UpdateStageRequest) (*models.VerificationStage, error) {
	stage, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != stage.Name {
		var existing models.VerificationStage
		if err := s.db.Where("name = ? AND id <> ?", req.Name, id).
			First(&existing).Error; err == nil {
			return nil, apperrors.Conflict("stage %q already exists", req.Name)
		}
		stage.Name = req.Name
	}
	if req.Order != nil && *req.Order != stage.SortOrder {
		if *req.Order < 1 {
			return nil, apperrors.Validation("order must be >= 1")
		}
		var existing models.VerificationStage
		if err := s.db.Where("sort_order = ? AND id <> ?", *req.Order, id).
			First(&existing).Error; err == nil {
			return nil, apperrors.Conflict("order %d already in use", *req.Order)
		}
		stage.SortOrder = *req.Order
	}
	if req.Description != "" {
		stage.Description = req.Description
	}

	if err := s.db.Save(stage).Error; err != nil {
		return nil, err
	}
	return stage, nil
}

// Delete removes a stage not referenced by any verification.
func (s *StageService) Delete(id uint) error {
	stage, err := s.GetByID(id)
	if err != nil {
		return err
	}

	var inUse int64
	s.db.Model(&models.ProjectVerification{}).Where("current_stage_id = ?", id).Count(&inUse)
	if inUse > 0 {
		return apperrors.Conflict("stage %q is referenced by %d verifications", stage.Name, inUse)
	}

	return s.db.Delete(stage).Error
}
