package services

import (
	"testing"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/config"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/utils"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()

	db := setupTestDB(t)
	utils.SetJWTSecret("test-secret")

	jwtCfg := &config.JWTConfig{Secret: "test-secret", ExpireHour: 24}
	ldapCfg := &config.LDAPConfig{Enabled: false}
	svc := NewAuthService(db, jwtCfg, ldapCfg)

	hashed, err := utils.HashPassword("registry-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := models.User{
		Username: "operator",
		Password: hashed,
		Email:    "operator@example.org",
		Role:     models.RoleVerifier,
		AuthType: "local",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return svc
}

func TestLogin_LocalSuccess(t *testing.T) {
	svc := newAuthFixture(t)

	result, err := svc.Login(&LoginRequest{
		Username: "operator",
		Password: "registry-pass",
	}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if result.AccessToken == "" {
		t.Error("AccessToken empty")
	}
	if result.RefreshToken == "" {
		t.Error("RefreshToken empty")
	}
	if result.User.LastLogin == nil {
		t.Error("LastLogin not updated")
	}

	claims, err := utils.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Username != "operator" || claims.Role != models.RoleVerifier {
		t.Errorf("claims = %+v, expected operator/verifier", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthFixture(t)

	if _, err := svc.Login(&LoginRequest{
		Username: "operator",
		Password: "nope",
	}, "", ""); err == nil {
		t.Fatal("expected login to fail")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := newAuthFixture(t)

	if _, err := svc.Login(&LoginRequest{
		Username: "ghost",
		Password: "whatever",
	}, "", ""); err == nil {
		t.Fatal("expected login to fail")
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc := newAuthFixture(t)

	login, err := svc.Login(&LoginRequest{
		Username: "operator",
		Password: "registry-pass",
	}, "", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := svc.Refresh(login.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The replaced token is revoked and cannot be used again
	if _, err := svc.Refresh(login.RefreshToken, "", ""); err == nil {
		t.Fatal("expected revoked token to be rejected")
	}
}

func TestRevokeRefreshToken(t *testing.T) {
	svc := newAuthFixture(t)

	login, err := svc.Login(&LoginRequest{
		Username: "operator",
		Password: "registry-pass",
	}, "", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.RevokeRefreshToken(login.RefreshToken); err != nil {
		t.Fatalf("RevokeRefreshToken: %v", err)
	}
	if _, err := svc.Refresh(login.RefreshToken, "", ""); err == nil {
		t.Fatal("expected revoked token to be rejected")
	}
}

func TestChangePassword(t *testing.T) {
	svc := newAuthFixture(t)

	login, err := svc.Login(&LoginRequest{
		Username: "operator",
		Password: "registry-pass",
	}, "", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	err = svc.ChangePassword(login.User.ID, &ChangePasswordRequest{
		OldPassword: "registry-pass",
		NewPassword: "stronger-pass",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Username: "operator", Password: "registry-pass"}, "", ""); err == nil {
		t.Fatal("old password still accepted")
	}
	if _, err := svc.Login(&LoginRequest{Username: "operator", Password: "stronger-pass"}, "", ""); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc := newAuthFixture(t)

	login, err := svc.Login(&LoginRequest{
		Username: "operator",
		Password: "registry-pass",
	}, "", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	err = svc.ChangePassword(login.User.ID, &ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "stronger-pass",
	})
	if err == nil {
		t.Fatal("expected change to fail")
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	svc := newAuthFixture(t)

	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("CreateAdminIfNotExists: %v", err)
	}
	// Second call is a no-op
	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("second CreateAdminIfNotExists: %v", err)
	}

	var count int64
	svc.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count != 1 {
		t.Errorf("admin count = %d, expected 1", count)
	}
}
