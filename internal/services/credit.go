package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/apperrors"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/logger"
)

// serialMaxAttempts bounds regeneration when the 4-digit suffix collides.
const serialMaxAttempts = 5

// CreditService manages the credit lifecycle: issuance with a generated
// serial number, then terminal retirement or transfer. Every mutation
// appends an immutable CreditEvent so a batch's history can be replayed.
type CreditService struct {
	db     *gorm.DB
	ledger *LedgerService
	// serialSuffix yields the 4-digit serial suffix; swapped out in tests
	// to force collisions.
	serialSuffix func() int
}

func NewCreditService(db *gorm.DB, ledger *LedgerService) *CreditService {
	return &CreditService{
		db:           db,
		ledger:       ledger,
		serialSuffix: func() int { return rand.IntN(10000) },
	}
}

type IssueCreditsRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Vintage   string `json:"vintage" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	OwnerID   uint   `json:"owner_id" binding:"required"`
}

type TransferCreditRequest struct {
	NewOwnerID uint `json:"new_owner_id" binding:"required"`
}

type CreditListRequest struct {
	Page      int    `form:"page" binding:"min=1"`
	PageSize  int    `form:"page_size" binding:"min=1,max=100"`
	ProjectID string `form:"project_id"`
	Status    string `form:"status"`
	OwnerID   uint   `form:"owner_id"`
	Vintage   string `form:"vintage"`
}

type CreditListResponse struct {
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.CarbonCredit `json:"items"`
}

// Issue creates a new credit batch for a project. The serial number embeds
// the project key and vintage span plus a random 4-digit suffix; on a
// duplicate-serial conflict the suffix is re-rolled.
func (s *CreditService) Issue(req *IssueCreditsRequest, userID uint) (*models.CarbonCredit, error) {
	if req.ProjectID == "" {
		return nil, apperrors.Validation("project_id is required")
	}
	if req.Vintage == "" {
		return nil, apperrors.Validation("vintage is required")
	}
	if req.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be a positive integer, got %d", req.Quantity)
	}
	vintageYear, err := strconv.Atoi(req.Vintage)
	if err != nil {
		return nil, apperrors.Validation("vintage must be a year, got %q", req.Vintage)
	}

	var project models.Project
	if err := s.db.Where("project_id = ?", req.ProjectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project %s not found", req.ProjectID)
		}
		return nil, err
	}

	var owner models.User
	if err := s.db.First(&owner, req.OwnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("owner %d not found", req.OwnerID)
		}
		return nil, err
	}

	var credit *models.CarbonCredit
	for attempt := 0; attempt < serialMaxAttempts; attempt++ {
		serial := formatSerialNumber(req.ProjectID, vintageYear, s.serialSuffix())

		candidate := models.CarbonCredit{
			SerialNumber: serial,
			ProjectID:    req.ProjectID,
			Vintage:      req.Vintage,
			Quantity:     req.Quantity,
			Status:       models.CreditAvailable,
			OwnerID:      req.OwnerID,
			IssuanceDate: time.Now(),
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&candidate).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.CreditEvent{
				CreditID:     candidate.ID,
				SerialNumber: serial,
				EventType:    models.CreditEventIssued,
				ToOwnerID:    &req.OwnerID,
				Quantity:     req.Quantity,
				CreatedAt:    time.Now(),
			}).Error; err != nil {
				return err
			}
			return recordActivityTx(tx, "credits_issued", "credit", serial, &userID)
		})
		if err == nil {
			credit = &candidate
			break
		}
		if !isDuplicateKeyError(err) {
			return nil, err
		}
		logger.Warnf("[Credit] serial %s collided, regenerating (attempt %d)", serial, attempt+1)
	}

	if credit == nil {
		return nil, apperrors.Conflict("could not generate a unique serial number for %s vintage %s",
			req.ProjectID, req.Vintage)
	}

	s.recordLedger(credit, models.CreditEventIssued, nil, &req.OwnerID)
	return credit, nil
}

// Retire permanently removes a batch from circulation.
func (s *CreditService) Retire(id uint, userID uint) (*models.CarbonCredit, error) {
	credit, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if credit.Status != models.CreditAvailable {
		return nil, apperrors.InvalidState("credit %s is %s, only available credits can be retired",
			credit.SerialNumber, credit.Status)
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Guarded update so two concurrent retirements cannot both win
		result := tx.Model(&models.CarbonCredit{}).
			Where("id = ? AND status = ?", id, models.CreditAvailable).
			Updates(map[string]interface{}{
				"status":          models.CreditRetired,
				"retirement_date": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.InvalidState("credit %s is no longer available", credit.SerialNumber)
		}
		if err := tx.Create(&models.CreditEvent{
			CreditID:     credit.ID,
			SerialNumber: credit.SerialNumber,
			EventType:    models.CreditEventRetired,
			FromOwnerID:  &credit.OwnerID,
			Quantity:     credit.Quantity,
			CreatedAt:    now,
		}).Error; err != nil {
			return err
		}
		return recordActivityTx(tx, "credit_retired", "credit", credit.SerialNumber, &userID)
	})
	if err != nil {
		return nil, err
	}

	credit.Status = models.CreditRetired
	credit.RetirementDate = &now

	s.recordLedger(credit, models.CreditEventRetired, &credit.OwnerID, nil)
	return credit, nil
}

// Transfer moves an available batch to a new owner. Transfer is terminal in
// this registry: the batch leaves circulation under the transferred status.
func (s *CreditService) Transfer(id uint, req *TransferCreditRequest, userID uint) (*models.CarbonCredit, error) {
	credit, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if credit.Status != models.CreditAvailable {
		return nil, apperrors.InvalidState("credit %s is %s, only available credits can be transferred",
			credit.SerialNumber, credit.Status)
	}

	var newOwner models.User
	if err := s.db.First(&newOwner, req.NewOwnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("owner %d not found", req.NewOwnerID)
		}
		return nil, err
	}
	if req.NewOwnerID == credit.OwnerID {
		return nil, apperrors.Validation("credit %s already belongs to owner %d", credit.SerialNumber, req.NewOwnerID)
	}

	previousOwner := credit.OwnerID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CarbonCredit{}).
			Where("id = ? AND status = ?", id, models.CreditAvailable).
			Updates(map[string]interface{}{
				"status":   models.CreditTransferred,
				"owner_id": req.NewOwnerID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.InvalidState("credit %s is no longer available", credit.SerialNumber)
		}
		if err := tx.Create(&models.CreditEvent{
			CreditID:     credit.ID,
			SerialNumber: credit.SerialNumber,
			EventType:    models.CreditEventTransferred,
			FromOwnerID:  &previousOwner,
			ToOwnerID:    &req.NewOwnerID,
			Quantity:     credit.Quantity,
			CreatedAt:    time.Now(),
		}).Error; err != nil {
			return err
		}
		return recordActivityTx(tx, "credit_transferred", "credit", credit.SerialNumber, &userID)
	})
	if err != nil {
		return nil, err
	}

	credit.Status = models.CreditTransferred
	credit.OwnerID = req.NewOwnerID

	s.recordLedger(credit, models.CreditEventTransferred, &previousOwner, &req.NewOwnerID)
	return credit, nil
}

func (s *CreditService) GetByID(id uint) (*models.CarbonCredit, error) {
	var credit models.CarbonCredit
	if err := s.db.First(&credit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("credit %d not found", id)
		}
		return nil, err
	}
	return &credit, nil
}

func (s *CreditService) GetBySerial(serial string) (*models.CarbonCredit, error) {
	var credit models.CarbonCredit
	if err := s.db.Where("serial_number = ?", serial).First(&credit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("credit %s not found", serial)
		}
		return nil, err
	}
	return &credit, nil
}

func (s *CreditService) List(req *CreditListRequest) (*CreditListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var credits []models.CarbonCredit
	var total int64

	query := s.db.Model(&models.CarbonCredit{})

	if req.ProjectID != "" {
		query = query.Where("project_id = ?", req.ProjectID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.OwnerID != 0 {
		query = query.Where("owner_id = ?", req.OwnerID)
	}
	if req.Vintage != "" {
		query = query.Where("vintage = ?", req.Vintage)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("issuance_date DESC").Find(&credits).Error; err != nil {
		return nil, err
	}

	return &CreditListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    credits,
	}, nil
}

// History returns a credit's lifecycle events oldest first.
func (s *CreditService) History(id uint) ([]models.CreditEvent, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	var events []models.CreditEvent
	if err := s.db.Where("credit_id = ?", id).Order("created_at, id").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *CreditService) recordLedger(credit *models.CarbonCredit, action string, from, to *uint) {
	if s.ledger == nil {
		return
	}
	_, err := s.ledger.Record("credit", credit.SerialNumber, "credit_"+action, map[string]interface{}{
		"credit_id":     credit.ID,
		"serial_number": credit.SerialNumber,
		"project_id":    credit.ProjectID,
		"quantity":      credit.Quantity,
		"from_owner_id": from,
		"to_owner_id":   to,
	})
	if err != nil {
		logger.Warnf("[Credit] ledger record failed for %s: %v", credit.SerialNumber, err)
	}
}

// formatSerialNumber builds CR-<projectId>-<vintage>-<vintage+1>-<suffix4>.
func formatSerialNumber(projectID string, vintageYear, suffix int) string {
	return fmt.Sprintf("CR-%s-%d-%d-%04d", projectID, vintageYear, vintageYear+1, suffix)
}

// generateSerialNumber builds a serial with a random 4-digit suffix.
func generateSerialNumber(projectID string, vintageYear int) string {
	return formatSerialNumber(projectID, vintageYear, rand.IntN(10000))
}

// isDuplicateKeyError detects a unique-constraint violation across the
// supported drivers.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique failed")
}
