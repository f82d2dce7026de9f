package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/apperrors"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/logger"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/workflows"
)

// VerificationService runs the verification pipeline: a project moves
// through the ordered stage sequence while pending, then resolves to a
// terminal approved or rejected outcome which also settles the project's
// status.
type VerificationService struct {
	db       *gorm.DB
	projects *ProjectService
	ledger   *LedgerService
	email    *EmailService
}

func NewVerificationService(db *gorm.DB, projects *ProjectService, ledger *LedgerService, email *EmailService) *VerificationService {
	return &VerificationService{db: db, projects: projects, ledger: ledger, email: email}
}

type CreateVerificationRequest struct {
	ProjectID               string     `json:"project_id" binding:"required"`
	VerifierID              *uint      `json:"verifier_id"`
	Notes                   string     `json:"notes"`
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date"`
}

type ResolveVerificationRequest struct {
	Outcome string `json:"outcome" binding:"required"`
	Notes   string `json:"notes"`
}

type VerificationListRequest struct {
	Page      int    `form:"page" binding:"min=1"`
	PageSize  int    `form:"page_size" binding:"min=1,max=100"`
	ProjectID string `form:"project_id"`
	Status    string `form:"status"`
}

type VerificationListResponse struct {
	Total    int64                        `json:"total"`
	Page     int                          `json:"page"`
	PageSize int                          `json:"page_size"`
	Items    []models.ProjectVerification `json:"items"`
}

// Create opens a verification request for a registered project, starting at
// the stage with the lowest order value.
func (s *VerificationService) Create(req *CreateVerificationRequest, userID uint) (*models.ProjectVerification, error) {
	if req.ProjectID == "" {
		return nil, apperrors.Validation("project_id is required")
	}

	project, err := s.projects.GetByProjectID(req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status == workflows.ProjectVerified || project.Status == workflows.ProjectRejected {
		return nil, apperrors.InvalidState("project %s is already %s", project.ProjectID, project.Status)
	}

	var firstStage models.VerificationStage
	if err := s.db.Order("sort_order").First(&firstStage).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Configuration("no verification stages are configured")
		}
		return nil, err
	}

	verification := models.ProjectVerification{
		ProjectID:               req.ProjectID,
		CurrentStageID:          firstStage.ID,
		Status:                  models.VerificationPending,
		VerifierID:              req.VerifierID,
		Notes:                   req.Notes,
		SubmittedDate:           time.Now(),
		EstimatedCompletionDate: req.EstimatedCompletionDate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// One live review per project, checked in the same transaction as
		// the insert so concurrent creates cannot both pass.
		var pending int64
		if err := tx.Model(&models.ProjectVerification{}).
			Where("project_id = ? AND status = ?", req.ProjectID, models.VerificationPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return apperrors.Conflict("project %s already has a pending verification", req.ProjectID)
		}

		// Submitting a draft for verification registers it implicitly
		if project.Status == workflows.ProjectDraft {
			if err := s.projects.setStatusTx(tx, project.ProjectID, workflows.ProjectRegistered); err != nil {
				return err
			}
		}
		if err := tx.Create(&verification).Error; err != nil {
			return err
		}
		return recordActivityTx(tx, "verification_created", "verification", req.ProjectID, &userID)
	})
	if err != nil {
		return nil, err
	}

	verification.CurrentStage = &firstStage
	s.decorate(&verification)
	return &verification, nil
}

// AdvanceStage moves a pending verification to the next stage by ascending
// order. At the highest stage this is a no-op: the review must then be
// settled through Resolve, not by further advancement.
func (s *VerificationService) AdvanceStage(id uint, userID uint) (*models.ProjectVerification, error) {
	verification, err := s.getRaw(id)
	if err != nil {
		return nil, err
	}

	if verification.Status != models.VerificationPending {
		return nil, apperrors.InvalidState("verification %d is already %s", id, verification.Status)
	}

	var current models.VerificationStage
	if err := s.db.First(&current, verification.CurrentStageID).Error; err != nil {
		return nil, err
	}

	var next models.VerificationStage
	err = s.db.Where("sort_order > ?", current.SortOrder).Order("sort_order").First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Already at the final stage
		verification.CurrentStage = &current
		s.decorate(verification)
		return verification, nil
	}
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(verification).Update("current_stage_id", next.ID).Error; err != nil {
			return err
		}
		return recordActivityTx(tx, "verification_advanced", "verification", verification.ProjectID, &userID)
	})
	if err != nil {
		return nil, err
	}

	verification.CurrentStageID = next.ID
	verification.CurrentStage = &next
	s.decorate(verification)
	return verification, nil
}

// Resolve settles a pending verification with a terminal outcome and moves
// the project to verified or rejected accordingly.
func (s *VerificationService) Resolve(id uint, req *ResolveVerificationRequest, userID uint) (*models.ProjectVerification, error) {
	if req.Outcome != models.VerificationApproved && req.Outcome != models.VerificationRejected {
		return nil, apperrors.Validation("outcome must be approved or rejected, got %q", req.Outcome)
	}

	verification, err := s.getRaw(id)
	if err != nil {
		return nil, err
	}

	if verification.Status != models.VerificationPending {
		return nil, apperrors.InvalidState("verification %d is already %s", id, verification.Status)
	}

	projectStatus := workflows.ProjectVerified
	if req.Outcome == models.VerificationRejected {
		projectStatus = workflows.ProjectRejected
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         req.Outcome,
			"completed_date": now,
		}
		if req.Notes != "" {
			updates["notes"] = req.Notes
		}
		if err := tx.Model(verification).Updates(updates).Error; err != nil {
			return err
		}
		if err := s.projects.setStatusTx(tx, verification.ProjectID, projectStatus); err != nil {
			return err
		}
		return recordActivityTx(tx, "verification_"+req.Outcome, "verification", verification.ProjectID, &userID)
	})
	if err != nil {
		return nil, err
	}

	verification.Status = req.Outcome
	verification.CompletedDate = &now
	if req.Notes != "" {
		verification.Notes = req.Notes
	}

	s.afterResolve(verification, req.Outcome)

	if err := s.db.Preload("CurrentStage").First(verification, id).Error; err == nil {
		s.decorate(verification)
	}
	return verification, nil
}

// afterResolve runs the best-effort side effects of a settled review: the
// ledger receipt and the developer notification.
func (s *VerificationService) afterResolve(verification *models.ProjectVerification, outcome string) {
	if s.ledger != nil {
		_, err := s.ledger.Record("verification", verification.ProjectID, "verification_"+outcome, map[string]interface{}{
			"verification_id": verification.ID,
			"project_id":      verification.ProjectID,
			"outcome":         outcome,
			"completed_date":  verification.CompletedDate,
		})
		if err != nil {
			logger.Warnf("[Verification] ledger record failed for %s: %v", verification.ProjectID, err)
		}
	}

	if s.email != nil {
		project, err := s.projects.GetByProjectID(verification.ProjectID)
		if err != nil {
			return
		}
		var developer models.User
		if err := s.db.First(&developer, project.DeveloperID).Error; err != nil {
			return
		}
		if err := s.email.SendVerificationOutcome(developer.Email, project, outcome); err != nil {
			logger.Warnf("[Verification] notification failed for %s: %v", verification.ProjectID, err)
		}
	}
}

// GetByID returns a verification with its stage preloaded and days remaining
// computed.
func (s *VerificationService) GetByID(id uint) (*models.ProjectVerification, error) {
	var verification models.ProjectVerification
	if err := s.db.Preload("CurrentStage").First(&verification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("verification %d not found", id)
		}
		return nil, err
	}
	s.decorate(&verification)
	return &verification, nil
}

func (s *VerificationService) List(req *VerificationListRequest) (*VerificationListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var verifications []models.ProjectVerification
	var total int64

	query := s.db.Model(&models.ProjectVerification{})

	if req.ProjectID != "" {
		query = query.Where("project_id = ?", req.ProjectID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("CurrentStage").Offset(offset).Limit(req.PageSize).
		Order("submitted_date DESC").Find(&verifications).Error; err != nil {
		return nil, err
	}

	for i := range verifications {
		s.decorate(&verifications[i])
	}

	return &VerificationListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    verifications,
	}, nil
}

func (s *VerificationService) getRaw(id uint) (*models.ProjectVerification, error) {
	var verification models.ProjectVerification
	if err := s.db.First(&verification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("verification %d not found", id)
		}
		return nil, err
	}
	return &verification, nil
}

// decorate computes DaysRemaining from the estimated completion date. The
// countdown is derived on every read, never persisted.
func (s *VerificationService) decorate(v *models.ProjectVerification) {
	if v.EstimatedCompletionDate == nil || v.Status != models.VerificationPending {
		v.DaysRemaining = nil
		return
	}
	days := int(math.Ceil(time.Until(*v.EstimatedCompletionDate).Hours() / 24))
	v.DaysRemaining = &days
}
