package models

import (
	"fmt"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&RefreshToken{},
		&ProjectCategory{},
		&Methodology{},
		&Project{},
		&VerificationStage{},
		&ProjectVerification{},
		&CarbonCredit{},
		&CreditEvent{},
		&ActivityLog{},
		&Statistics{},
		&LedgerRecord{},
		&SystemConfig{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates default reference data if not exists.
func SeedDefaultData() error {
	// Verification pipeline stages, in review order
	var stageCount int64
	DB.Model(&VerificationStage{}).Count(&stageCount)
	if stageCount == 0 {
		stages := []VerificationStage{
			{Name: "Document Review", SortOrder: 1, Description: "Review of project design document and supporting evidence"},
			{Name: "Methodology Assessment", SortOrder: 2, Description: "Check that the applied methodology fits the project activity"},
			{Name: "Field Validation", SortOrder: 3, Description: "On-site validation of baseline and monitoring data"},
			{Name: "Final Assessment", SortOrder: 4, Description: "Verifier sign-off and registry decision"},
		}
		if err := DB.Create(&stages).Error; err != nil {
			return err
		}
	}

	// Project categories
	var categoryCount int64
	DB.Model(&ProjectCategory{}).Count(&categoryCount)
	if categoryCount == 0 {
		categories := []ProjectCategory{
			{Name: "Forestry", Color: "#2e7d32", Description: "Afforestation, reforestation and avoided deforestation"},
			{Name: "Renewable Energy", Color: "#f9a825", Description: "Grid-connected and off-grid renewable generation"},
			{Name: "Agriculture", Color: "#8d6e63", Description: "Soil carbon and improved agricultural land management"},
			{Name: "Waste Management", Color: "#546e7a", Description: "Landfill gas capture and waste diversion"},
			{Name: "Energy Efficiency", Color: "#1565c0", Description: "Demand-side efficiency and clean cookstoves"},
		}
		if err := DB.Create(&categories).Error; err != nil {
			return err
		}
	}

	// Methodology catalog
	var methodologyCount int64
	DB.Model(&Methodology{}).Count(&methodologyCount)
	if methodologyCount == 0 {
		methodologies := []Methodology{
			{Name: "VM0007 REDD+ Methodology Framework", Category: "Forestry"},
			{Name: "AR-ACM0003 Afforestation and Reforestation", Category: "Forestry"},
			{Name: "AMS-I.D Grid Connected Renewable Electricity", Category: "Renewable Energy"},
			{Name: "VM0042 Improved Agricultural Land Management", Category: "Agriculture"},
			{Name: "ACM0001 Landfill Gas Capture", Category: "Waste Management"},
			{Name: "AMS-II.G Energy Efficiency in Thermal Applications", Category: "Energy Efficiency"},
		}
		if err := DB.Create(&methodologies).Error; err != nil {
			return err
		}
	}

	// System configuration defaults
	defaultConfigs := []SystemConfig{
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
		{Key: "auth_access_token_expire_hours", Value: "24", Type: "int", Group: "auth", Label: "Access Token Expiry (hours)"},
		{Key: "auth_refresh_token_expire_hours", Value: "720", Type: "int", Group: "auth", Label: "Refresh Token Expiry (hours)"},
		{Key: "ldap_enabled", Value: "false", Type: "bool", Group: "ldap", Label: "Enable LDAP Authentication"},
	}

	for _, cfg := range defaultConfigs {
		var count int64
		DB.Model(&SystemConfig{}).Where("config_key = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
