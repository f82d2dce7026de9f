package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/workflows"
)

// StatisticsService maintains the derived dashboard counters. The snapshot
// row is a pure function of the project, verification and credit tables;
// Recompute overwrites it wholesale and only LastUpdated is independently
// authored.
type StatisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{db: db}
}

// Recompute rebuilds the snapshot from the source tables and persists it.
func (s *StatisticsService) Recompute() (*models.Statistics, error) {
	var snapshot models.Statistics

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).Count(&snapshot.TotalProjects).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Project{}).
			Where("status = ?", workflows.ProjectVerified).
			Count(&snapshot.VerifiedProjects).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ProjectVerification{}).
			Where("status = ?", models.VerificationPending).
			Count(&snapshot.PendingVerification).Error; err != nil {
			return err
		}

		var totalCredits *int64
		if err := tx.Model(&models.CarbonCredit{}).
			Select("SUM(quantity)").Scan(&totalCredits).Error; err != nil {
			return err
		}
		if totalCredits != nil {
			snapshot.TotalCredits = *totalCredits
		}

		snapshot.LastUpdated = time.Now()

		var existing models.Statistics
		err := tx.First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&snapshot).Error
		}
		if err != nil {
			return err
		}
		snapshot.ID = existing.ID
		return tx.Save(&snapshot).Error
	})
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// Get returns the stored snapshot, computing it first if none exists yet.
func (s *StatisticsService) Get() (*models.Statistics, error) {
	var snapshot models.Statistics
	err := s.db.First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.Recompute()
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
