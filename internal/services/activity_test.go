package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/apperrors"
)

func TestActivityRecord_RejectsMalformedInput(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(db)

	cases := []struct {
		action, entityType, entityID string
	}{
		{"", "project", "KEN-2023-0001"},
		{"project_created", "", "KEN-2023-0001"},
		{"project_created", "project", ""},
	}
	for i, c := range cases {
		if _, err := svc.Record(c.action, c.entityType, c.entityID, nil); !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}

	var count int64
	db.Model(&models.ActivityLog{}).Count(&count)
	if count != 0 {
		t.Errorf("persisted %d entries, expected 0", count)
	}
}

func TestActivityList_ReverseChronological(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		entry := models.ActivityLog{
			Action:     fmt.Sprintf("action_%d", i),
			EntityType: "project",
			EntityID:   "KEN-2023-0001",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&entry).Error; err != nil {
			t.Fatalf("seed entry %d: %v", i, err)
		}
	}

	resp, err := svc.List(&ActivityListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 5 {
		t.Errorf("Total = %d, expected 5", resp.Total)
	}
	for i := 1; i < len(resp.Items); i++ {
		if resp.Items[i].CreatedAt.After(resp.Items[i-1].CreatedAt) {
			t.Errorf("items not in reverse chronological order at index %d", i)
		}
	}
	if resp.Items[0].Action != "action_4" {
		t.Errorf("newest entry = %q, expected action_4", resp.Items[0].Action)
	}
}

func TestActivityList_SnapshotIsRestartable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(db)

	if _, err := svc.Record("project_created", "project", "KEN-2023-0001", nil); err != nil {
		t.Fatalf("Record: %v", err)
	}

	first, err := svc.List(&ActivityListRequest{})
	if err != nil {
		t.Fatalf("first List: %v", err)
	}
	second, err := svc.List(&ActivityListRequest{})
	if err != nil {
		t.Fatalf("second List: %v", err)
	}
	if first.Total != second.Total || len(first.Items) != len(second.Items) {
		t.Errorf("re-query changed the snapshot: %d/%d vs %d/%d",
			first.Total, len(first.Items), second.Total, len(second.Items))
	}
}

func TestActivityList_FiltersByEntity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(db)

	if _, err := svc.Record("project_created", "project", "KEN-2023-0001", nil); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := svc.Record("credits_issued", "credit", "CR-KEN-2023-0001-2023-2024-0042", nil); err != nil {
		t.Fatalf("Record: %v", err)
	}

	resp, err := svc.List(&ActivityListRequest{EntityType: "credit"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("Total = %d, expected 1", resp.Total)
	}
	if resp.Items[0].EntityType != "credit" {
		t.Errorf("EntityType = %q, expected credit", resp.Items[0].EntityType)
	}
}
