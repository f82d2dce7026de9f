package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/apperrors"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/workflows"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var countryCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

type ProjectService struct {
	db             *gorm.DB
	stateMachine   *workflows.StateMachine
	defaultCountry string
}

func NewProjectService(db *gorm.DB, defaultCountry string) *ProjectService {
	if defaultCountry == "" {
		defaultCountry = "KEN"
	}
	return &ProjectService{
		db:             db,
		stateMachine:   workflows.NewProjectStateMachine(),
		defaultCountry: defaultCountry,
	}
}

type ProjectListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	Name     string `form:"name"`
	Status   string `form:"status"`
	Category string `form:"category"`
	Country  string `form:"country"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

type CreateProjectRequest struct {
	Name               string         `json:"name" binding:"required"`
	Description        string         `json:"description"`
	Category           string         `json:"category" binding:"required"`
	Methodology        string         `json:"methodology"`
	Country            string         `json:"country"` // ISO alpha-3; defaults to the registry country
	EstimatedReduction int            `json:"estimated_reduction"`
	Location           datatypes.JSON `json:"location"`
}

type UpdateProjectRequest struct {
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Category           string         `json:"category"`
	Methodology        string         `json:"methodology"`
	EstimatedReduction *int           `json:"estimated_reduction"`
	Location           datatypes.JSON `json:"location"`
}

// List returns paginated projects
func (s *ProjectService) List(req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var projects []models.Project
	var total int64

	query := s.db.Model(&models.Project{})

	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Country != "" {
		query = query.Where("country = ?", req.Country)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// GetByID returns a project by database ID
func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project %d not found", id)
		}
		return nil, err
	}
	return &project, nil
}

// GetByProjectID returns a project by its business key (e.g. KEN-2023-0045).
func (s *ProjectService) GetByProjectID(projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project %s not found", projectID)
		}
		return nil, err
	}
	return &project, nil
}

// Create registers a new project in draft status and assigns its business key.
func (s *ProjectService) Create(req *CreateProjectRequest, developerID uint) (*models.Project, error) {
	if req.Country == "" {
		req.Country = s.defaultCountry
	}
	if !countryCodePattern.MatchString(req.Country) {
		return nil, apperrors.Validation("country must be an ISO alpha-3 code, got %q", req.Country)
	}
	if req.EstimatedReduction < 0 {
		return nil, apperrors.Validation("estimated_reduction must be >= 0")
	}

	var category models.ProjectCategory
	if err := s.db.Where("name = ?", req.Category).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("unknown category %q", req.Category)
		}
		return nil, err
	}

	if req.Methodology != "" {
		var methodology models.Methodology
		if err := s.db.Where("name = ?", req.Methodology).First(&methodology).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("unknown methodology %q", req.Methodology)
			}
			return nil, err
		}
	}

	project := models.Project{
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		Methodology:        req.Methodology,
		Status:             workflows.ProjectDraft,
		Country:            req.Country,
		EstimatedReduction: req.EstimatedReduction,
		Location:           req.Location,
		DeveloperID:        developerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		businessKey, err := s.nextProjectID(tx, req.Country)
		if err != nil {
			return err
		}
		project.ProjectID = businessKey

		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return recordActivityTx(tx, "project_created", "project", project.ProjectID, &developerID)
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// nextProjectID assigns the next sequence number within {COUNTRY}-{YEAR}.
// The per-prefix count plus one keeps keys dense; the unique index on
// project_id catches the race of two concurrent creates in the same prefix.
func (s *ProjectService) nextProjectID(tx *gorm.DB, country string) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", country, year)

	var count int64
	if err := tx.Model(&models.Project{}).
		Where("project_id LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return "", err
	}

	seq := count + 1
	if seq > 9999 {
		return "", apperrors.Configuration("project id sequence exhausted for %s%d", country, year)
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// Update modifies mutable project fields. The business key and status are
// never touched here; status moves only through Submit and the verification
// pipeline.
func (s *ProjectService) Update(id uint, req *UpdateProjectRequest, userID uint) (*models.Project, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Description != "" {
		project.Description = req.Description
	}
	if req.Category != "" {
		var category models.ProjectCategory
		if err := s.db.Where("name = ?", req.Category).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("unknown category %q", req.Category)
			}
			return nil, err
		}
		project.Category = req.Category
	}
	if req.Methodology != "" {
		var methodology models.Methodology
		if err := s.db.Where("name = ?", req.Methodology).First(&methodology).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("unknown methodology %q", req.Methodology)
			}
			return nil, err
		}
		project.Methodology = req.Methodology
	}
	if req.EstimatedReduction != nil {
		if *req.EstimatedReduction < 0 {
			return nil, apperrors.Validation("estimated_reduction must be >= 0")
		}
		project.EstimatedReduction = *req.EstimatedReduction
	}
	if len(req.Location) > 0 {
		project.Location = req.Location
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		return recordActivityTx(tx, "project_updated", "project", project.ProjectID, &userID)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Submit moves a draft project to registered, making it eligible for
// verification.
func (s *ProjectService) Submit(id uint, userID uint) (*models.Project, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !s.stateMachine.CanTransition(project.Status, workflows.ProjectRegistered) {
		return nil, apperrors.InvalidState("project %s cannot move from %s to %s",
			project.ProjectID, project.Status, workflows.ProjectRegistered)
	}

	project.Status = workflows.ProjectRegistered
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		return recordActivityTx(tx, "project_submitted", "project", project.ProjectID, &userID)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// setStatus applies a pipeline-driven status change inside an existing
// transaction. Used by the verification service when a review resolves.
func (s *ProjectService) setStatusTx(tx *gorm.DB, projectID, status string) error {
	var project models.Project
	if err := tx.Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("project %s not found", projectID)
		}
		return err
	}
	if !s.stateMachine.CanTransition(project.Status, status) {
		return apperrors.InvalidState("project %s cannot move from %s to %s",
			project.ProjectID, project.Status, status)
	}
	return tx.Model(&project).Update("status", status).Error
}

// Delete removes a draft project. Projects that entered the pipeline are
// kept for audit and cannot be deleted.
func (s *ProjectService) Delete(id uint, userID uint) error {
	project, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if project.Status != workflows.ProjectDraft {
		return apperrors.InvalidState("only draft projects can be deleted, %s is %s",
			project.ProjectID, project.Status)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(project).Error; err != nil {
			return err
		}
		return recordActivityTx(tx, "project_deleted", "project", project.ProjectID, &userID)
	})
}
