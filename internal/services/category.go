package services

import (
	"errors"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/apperrors"
	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Color       string `json:"color"`
	Description string `json:"description"`
}

func (s *CategoryService) List() ([]models.ProjectCategory, error) {
	var categories []models.ProjectCategory
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) GetByID(id uint) (*models.ProjectCategory, error) {
	var category models.ProjectCategory
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("category %d not found", id)
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Create(req *CreateCategoryRequest) (*models.ProjectCategory, error) {
	var existing models.ProjectCategory
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("category %q already exists", req.Name)
	}

	category := models.ProjectCategory{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update changes display fields. The name is the reference key projects use
// and stays fixed.
func (s *CategoryService) Update(id uint, req *UpdateCategoryRequest) (*models.ProjectCategory, error) {
	category, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Color != "" {
		category.Color = req.Color
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	if err := s.db.Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(id uint) error {
	category, err := s.GetByID(id)
	if err != nil {
		return err
	}

	var inUse int64
	s.db.Model(&models.Project{}).Where("category = ?", category.Name).Count(&inUse)
	if inUse > 0 {
		return apperrors.Conflict("category %q is referenced by %d projects", category.Name, inUse)
	}

	return s.db.Delete(category).Error
}
