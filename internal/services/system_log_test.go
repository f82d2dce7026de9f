package services

import (
	"testing"
	"time"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
)

func TestSystemLog_WriteAndList(t *testing.T) {
	db := setupTestDB(t)
	InitSystemLogger(db)

	LogInfo("credit", "issue", "issued batch", nil, "127.0.0.1", "test-agent", map[string]interface{}{
		"serial": "CR-KEN-2023-0001-2023-2024-0042",
	})
	LogError("ledger", "anchor", "redis unreachable", nil, "", "", nil)

	svc := NewSystemLogService(db)
	resp, err := svc.List(&SystemLogListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("Total = %d, expected 2", resp.Total)
	}

	filtered, err := svc.List(&SystemLogListRequest{Level: "error"})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if filtered.Total != 1 {
		t.Errorf("error Total = %d, expected 1", filtered.Total)
	}
	if filtered.Items[0].Module != "ledger" {
		t.Errorf("Module = %q, expected ledger", filtered.Items[0].Module)
	}
}

func TestSystemLog_CleanupOldLogs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemLogService(db)

	old := models.SystemLog{
		Level:     "info",
		Module:    "project",
		Action:    "create",
		CreatedAt: time.Now().AddDate(0, 0, -60),
	}
	recent := models.SystemLog{
		Level:     "info",
		Module:    "project",
		Action:    "create",
		CreatedAt: time.Now(),
	}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed old: %v", err)
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("seed recent: %v", err)
	}

	deleted, err := svc.CleanupOldLogs(30)
	if err != nil {
		t.Fatalf("CleanupOldLogs: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, expected 1", deleted)
	}

	var remaining int64
	db.Model(&models.SystemLog{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("remaining = %d, expected 1", remaining)
	}
}

func TestSystemLog_RetentionDays(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemLogService(db)

	// No config row yet: fall back to the default
	if days := svc.GetRetentionDays(); days != 30 {
		t.Errorf("default retention = %d, expected 30", days)
	}

	if err := db.Create(&models.SystemConfig{
		Key:   "log_retention_days",
		Value: "14",
		Type:  "int",
		Group: "general",
	}).Error; err != nil {
		t.Fatalf("seed config: %v", err)
	}
	if days := svc.GetRetentionDays(); days != 14 {
		t.Errorf("retention = %d, expected 14", days)
	}

	if err := svc.SetRetentionDays(7); err != nil {
		t.Fatalf("SetRetentionDays: %v", err)
	}
	if days := svc.GetRetentionDays(); days != 7 {
		t.Errorf("retention = %d, expected 7", days)
	}
}

func TestSystemConfig_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemConfigService(db)

	if _, err := svc.Get("missing"); err == nil {
		t.Error("expected error for missing key")
	}
	if v := svc.GetWithDefault("missing", "fallback"); v != "fallback" {
		t.Errorf("GetWithDefault = %q, expected fallback", v)
	}

	if err := svc.Set("registry_name", "CarbonTrack"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := svc.Get("registry_name"); err != nil || v != "CarbonTrack" {
		t.Errorf("Get = %q, %v", v, err)
	}

	// Set on an existing key updates in place
	if err := svc.Set("registry_name", "CarbonTrack Registry"); err != nil {
		t.Fatalf("second Set: %v", err)
	}
	if v, _ := svc.Get("registry_name"); v != "CarbonTrack Registry" {
		t.Errorf("Get after update = %q", v)
	}

	var count int64
	db.Model(&models.SystemConfig{}).Where("config_key = ?", "registry_name").Count(&count)
	if count != 1 {
		t.Errorf("config rows = %d, expected 1", count)
	}
}
