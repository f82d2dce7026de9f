package services

import (
	"testing"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
)

func TestStatistics_TotalCreditsSumsQuantities(t *testing.T) {
	db := setupTestDB(t)
	seedCategory(t, db, "Forestry")
	dev := seedUser(t, db, "dev1", models.RoleProjectDeveloper)

	projects := NewProjectService(db, "KEN")
	project := seedProject(t, db, projects, dev.ID)

	credits := NewCreditService(db, nil)
	for _, quantity := range []int{100, 250} {
		if _, err := credits.Issue(&IssueCreditsRequest{
			ProjectID: project.ProjectID,
			Vintage:   "2023",
			Quantity:  quantity,
			OwnerID:   dev.ID,
		}, dev.ID); err != nil {
			t.Fatalf("Issue %d: %v", quantity, err)
		}
	}

	stats := NewStatisticsService(db)
	snapshot, err := stats.Recompute()
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if snapshot.TotalCredits != 350 {
		t.Errorf("TotalCredits = %d, expected 350", snapshot.TotalCredits)
	}
	if snapshot.TotalProjects != 1 {
		t.Errorf("TotalProjects = %d, expected 1", snapshot.TotalProjects)
	}
	if snapshot.LastUpdated.IsZero() {
		t.Error("LastUpdated not set")
	}
}

func TestStatistics_CountsByStatus(t *testing.T) {
	db := setupTestDB(t)
	seedStages(t, db)
	seedCategory(t, db, "Forestry")
	dev := seedUser(t, db, "dev1", models.RoleProjectDeveloper)

	projects := NewProjectService(db, "KEN")
	verifications := NewVerificationService(db, projects, nil, nil)

	// Project 1: verified through the pipeline
	p1 := seedProject(t, db, projects, dev.ID)
	v1, err := verifications.Create(&CreateVerificationRequest{ProjectID: p1.ProjectID}, dev.ID)
	if err != nil {
		t.Fatalf("Create verification: %v", err)
	}
	if _, err := verifications.Resolve(v1.ID, &ResolveVerificationRequest{Outcome: models.VerificationApproved}, dev.ID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// Project 2: still under review
	p2, err := projects.Create(&CreateProjectRequest{Name: "Cookstoves", Category: "Forestry"}, dev.ID)
	if err != nil {
		t.Fatalf("Create project: %v", err)
	}
	if _, err := verifications.Create(&CreateVerificationRequest{ProjectID: p2.ProjectID}, dev.ID); err != nil {
		t.Fatalf("Create verification: %v", err)
	}

	snapshot, err := NewStatisticsService(db).Recompute()
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if snapshot.TotalProjects != 2 {
		t.Errorf("TotalProjects = %d, expected 2", snapshot.TotalProjects)
	}
	if snapshot.VerifiedProjects != 1 {
		t.Errorf("VerifiedProjects = %d, expected 1", snapshot.VerifiedProjects)
	}
	if snapshot.PendingVerification != 1 {
		t.Errorf("PendingVerification = %d, expected 1", snapshot.PendingVerification)
	}
}

func TestStatistics_GetComputesWhenMissing(t *testing.T) {
	db := setupTestDB(t)
	stats := NewStatisticsService(db)

	snapshot, err := stats.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if snapshot.TotalProjects != 0 || snapshot.TotalCredits != 0 {
		t.Errorf("empty registry snapshot = %+v, expected zeros", snapshot)
	}

	// Recompute must overwrite the same row, not accumulate them
	if _, err := stats.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	var count int64
	db.Model(&models.Statistics{}).Count(&count)
	if count != 1 {
		t.Errorf("statistics rows = %d, expected 1", count)
	}
}
