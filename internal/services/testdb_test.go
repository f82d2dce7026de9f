package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ProjectCategory{},
		&models.Methodology{},
		&models.Project{},
		&models.VerificationStage{},
		&models.ProjectVerification{},
		&models.CarbonCredit{},
		&models.CreditEvent{},
		&models.ActivityLog{},
		&models.Statistics{},
		&models.LedgerRecord{},
		&models.SystemLog{},
		&models.SystemConfig{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func seedStages(t *testing.T, db *gorm.DB) []models.VerificationStage {
	t.Helper()

	stages := []models.VerificationStage{
		{Name: "Document Review", SortOrder: 1},
		{Name: "Methodology Assessment", SortOrder: 2},
		{Name: "Field Validation", SortOrder: 3},
		{Name: "Final Assessment", SortOrder: 4},
	}
	for i := range stages {
		if err := db.Create(&stages[i]).Error; err != nil {
			t.Fatalf("seed stage %s: %v", stages[i].Name, err)
		}
	}
	return stages
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.ProjectCategory {
	t.Helper()

	category := models.ProjectCategory{Name: name, Color: "#2e7d32"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return &category
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.org",
		Role:     role,
		AuthType: "local",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return &user
}

func seedProject(t *testing.T, db *gorm.DB, svc *ProjectService, developerID uint) *models.Project {
	t.Helper()

	project, err := svc.Create(&CreateProjectRequest{
		Name:     "Mangrove Restoration",
		Category: "Forestry",
	}, developerID)
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}
