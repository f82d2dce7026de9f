package services

import (
	"errors"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/apperrors"
	"gorm.io/gorm"
)

type MethodologyService struct {
	db *gorm.DB
}

func NewMethodologyService(db *gorm.DB) *MethodologyService {
	return &MethodologyService{db: db}
}

type CreateMethodologyRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type UpdateMethodologyRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (s *MethodologyService) List(category string) ([]models.Methodology, error) {
	var methodologies []models.Methodology
	query := s.db.Order("name")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&methodologies).Error; err != nil {
		return nil, err
	}
	return methodologies, nil
}

func (s *MethodologyService) GetByID(id uint) (*models.Methodology, error) {
	var methodology models.Methodology
	if err := s.db.First(&methodology, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("methodology %d not found", id)
		}
		return nil, err
	}
	return &methodology, nil
}

func (s *MethodologyService) Create(req *CreateMethodologyRequest) (*models.Methodology, error) {
	var existing models.Methodology
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("methodology %q already exists", req.Name)
	}

	if req.Category != "" {
		var category models.ProjectCategory
		if err := s.db.Where("name = ?", req.Category).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("unknown category %q", req.Category)
			}
			return nil, err
		}
	}

	methodology := models.Methodology{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := s.db.Create(&methodology).Error; err != nil {
		return nil, err
	}
	return &methodology, nil
}

func (s *MethodologyService) Update(id uint, req *UpdateMethodologyRequest) (*models.Methodology, error) {
	methodology, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Category != "" {
		var category models.ProjectCategory
		if err := s.db.Where("name = ?", req.Category).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("unknown category %q", req.Category)
			}
			return nil, err
		}
		methodology.Category = req.Category
	}
	if req.Description != "" {
		methodology.Description = req.Description
	}

	if err := s.db.Save(methodology).Error; err != nil {
		return nil, err
	}
	return methodology, nil
}

func (s *MethodologyService) Delete(id uint) error {
	methodology, err := s.GetByID(id)
	if err != nil {
		return err
	}

	var inUse int64
	s.db.Model(&models.Project{}).Where("methodology = ?", methodology.Name).Count(&inUse)
	if inUse > 0 {
		return apperrors.Conflict("methodology %q is referenced by %d projects", methodology.Name, inUse)
	}

	return s.db.Delete(methodology).Error
}
