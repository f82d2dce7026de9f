package main

import (
	"fmt"
	"os"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/config"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/services"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seeds a local database with demo registry data: a developer, a verifier,
// two projects (one taken through the full verification pipeline) and an
// issued credit batch. Intended for development only.
//
// Usage: go run scripts/seed_demo.go [config.yaml]
func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	if err := models.AutoMigrate(); err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		os.Exit(1)
	}
	if err := models.SeedDefaultData(); err != nil {
		fmt.Printf("Failed to seed defaults: %v\n", err)
		os.Exit(1)
	}
	services.InitSystemLogger(models.GetDB())
	db := models.GetDB()

	developer := seedUser(db, "demo-developer", models.RoleProjectDeveloper)
	verifier := seedUser(db, "demo-verifier", models.RoleVerifier)

	projects := services.NewProjectService(db, cfg.Registry.DefaultCountry)
	ledger := services.NewLedgerService(db, nil, cfg.Registry.LedgerEnabled)
	verifications := services.NewVerificationService(db, projects, ledger, services.NewEmailService(&cfg.SMTP))
	credits := services.NewCreditService(db, ledger)

	mangrove, err := projects.Create(&services.CreateProjectRequest{
		Name:               "Coastal Mangrove Restoration",
		Description:        "Replanting of degraded mangrove stands along the coastline",
		Category:           "Forestry",
		Methodology:        "AR-ACM0003 Afforestation and Reforestation",
		EstimatedReduction: 12000,
		Location:           datatypes.JSON(`{"type":"Point","coordinates":[39.66,-4.05]}`),
	}, developer.ID)
	if err != nil {
		fmt.Printf("Failed to create demo project: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created project %s\n", mangrove.ProjectID)

	cookstoves, err := projects.Create(&services.CreateProjectRequest{
		Name:               "Improved Cookstoves Distribution",
		Description:        "Distribution of efficient cookstoves to rural households",
		Category:           "Energy Efficiency",
		EstimatedReduction: 4500,
	}, developer.ID)
	if err != nil {
		fmt.Printf("Failed to create demo project: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created project %s (left in draft)\n", cookstoves.ProjectID)

	// Walk the first project through the whole pipeline
	v, err := verifications.Create(&services.CreateVerificationRequest{
		ProjectID:  mangrove.ProjectID,
		VerifierID: &verifier.ID,
		Notes:      "Demo verification",
	}, verifier.ID)
	if err != nil {
		fmt.Printf("Failed to create verification: %v\n", err)
		os.Exit(1)
	}
	for i := 0; i < 3; i++ {
		if v, err = verifications.AdvanceStage(v.ID, verifier.ID); err != nil {
			fmt.Printf("Failed to advance verification: %v\n", err)
			os.Exit(1)
		}
	}
	if _, err = verifications.Resolve(v.ID, &services.ResolveVerificationRequest{
		Outcome: "approved",
		Notes:   "All stages passed",
	}, verifier.ID); err != nil {
		fmt.Printf("Failed to resolve verification: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Verified project %s\n", mangrove.ProjectID)

	credit, err := credits.Issue(&services.IssueCreditsRequest{
		ProjectID: mangrove.ProjectID,
		Vintage:   "2024",
		Quantity:  5000,
		OwnerID:   developer.ID,
	}, verifier.ID)
	if err != nil {
		fmt.Printf("Failed to issue credits: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Issued %d credits, serial %s\n", credit.Quantity, credit.SerialNumber)

	fmt.Println("Demo data ready")
}

func seedUser(db *gorm.DB, username, role string) *models.User {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err == nil {
		return &user
	}

	hashed, err := utils.HashPassword("demo1234")
	if err != nil {
		fmt.Printf("Failed to hash password: %v\n", err)
		os.Exit(1)
	}
	user = models.User{
		Username: username,
		Password: hashed,
		Email:    username + "@example.com",
		FullName: username,
		Role:     role,
		AuthType: "local",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		fmt.Printf("Failed to create user %s: %v\n", username, err)
		os.Exit(1)
	}
	fmt.Printf("Created user %s (role %s)\n", username, role)
	return &user
}
