package services

import (
	"strings"
	"testing"

	"github.com/codecrew/backend/internal/config"
	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/internal/utils"
	"github.com/codecrew/backend/pkg/response"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	db := newTestDB(t)
	return NewAuthService(db, &config.JWTConfig{Secret: "test-secret", ExpireHour: 24}), db
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	result, err := svc.Signup(&SignupRequest{
		Username:    "NewDev",
		Password:    "correct-horse",
		Email:       "dev@example.com",
		DisplayName: "New Dev",
	}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if result.User.Username != "newdev" {
		t.Errorf("Username = %q, expected lowercased newdev", result.User.Username)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("both tokens should be issued")
	}

	claims, err := utils.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("claims UserID = %d, expected %d", claims.UserID, result.User.ID)
	}

	login, err := svc.Login(&LoginRequest{Username: "newdev", Password: "correct-horse"}, "", "")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Error("login should resolve the same account")
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	svc, _ := newAuthService(t)

	req := &SignupRequest{Username: "taken", Password: "correct-horse", Email: "a@example.com", DisplayName: "A"}
	if _, err := svc.Signup(req, "", ""); err != nil {
		t.Fatalf("first Signup failed: %v", err)
	}
	_, err := svc.Signup(req, "", "")
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Signup(&SignupRequest{
		Username: "dev", Password: "correct-horse", Email: "d@example.com", DisplayName: "Dev",
	}, "", ""); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	_, err := svc.Login(&LoginRequest{Username: "dev", Password: "wrong"}, "", "")
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 401 {
		t.Fatalf("expected 401 AppError, got %v", err)
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, db := newAuthService(t)

	result, err := svc.Signup(&SignupRequest{
		Username: "dev", Password: "correct-horse", Email: "d@example.com", DisplayName: "Dev",
	}, "", "")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	db.Model(result.User).Update("is_active", false)

	_, err = svc.Login(&LoginRequest{Username: "dev", Password: "correct-horse"}, "", "")
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 403 {
		t.Fatalf("expected 403 AppError, got %v", err)
	}
}

func TestFederatedSignIn(t *testing.T) {
	svc, _ := newAuthService(t)

	first, err := svc.FederatedSignIn(&FederatedRequest{
		Subject:     "provider|abc123",
		Email:       "ada@example.com",
		DisplayName: "Ada Lovelace",
		Avatar:      "https://example.com/a.png",
	}, "", "")
	if err != nil {
		t.Fatalf("FederatedSignIn failed: %v", err)
	}
	if !strings.HasPrefix(first.User.Username, "ada-lovelace-") {
		t.Errorf("Username = %q, expected derived ada-lovelace- handle", first.User.Username)
	}
	if first.User.AuthType != models.AuthTypeFederated {
		t.Errorf("AuthType = %q, expected federated", first.User.AuthType)
	}

	// Repeat sign-in resolves the same account and refreshes the profile
	second, err := svc.FederatedSignIn(&FederatedRequest{
		Subject:     "provider|abc123",
		DisplayName: "Ada L.",
	}, "", "")
	if err != nil {
		t.Fatalf("repeat FederatedSignIn failed: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Error("repeat sign-in must resolve the same account")
	}

	reloaded, err := svc.GetUserByID(first.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if reloaded.DisplayName != "Ada L." {
		t.Errorf("DisplayName = %q, expected refreshed value", reloaded.DisplayName)
	}
	if reloaded.Username != first.User.Username {
		t.Error("handle must not change on repeat sign-in")
	}
	if reloaded.Avatar != "https://example.com/a.png" {
		t.Error("empty avatar in repeat sign-in must not clear the stored one")
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, db := newAuthService(t)

	result, err := svc.Signup(&SignupRequest{
		Username: "dev", Password: "correct-horse", Email: "d@example.com", DisplayName: "Dev",
	}, "", "")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	rotated, err := svc.Refresh(result.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if rotated.RefreshToken == result.RefreshToken {
		t.Error("refresh must issue a new refresh token")
	}

	// The used token is revoked and linked to its replacement
	var stored models.RefreshToken
	if err := db.Where("token_hash = ?", hashRefreshToken(result.RefreshToken)).
		First(&stored).Error; err != nil {
		t.Fatalf("load stored token: %v", err)
	}
	if stored.RevokedAt == nil {
		t.Error("used refresh token should be revoked")
	}
	if stored.ReplacedByTokenID == nil {
		t.Error("used refresh token should link to its replacement")
	}

	// Replaying the old token fails
	_, err = svc.Refresh(result.RefreshToken, "", "")
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 401 {
		t.Fatalf("expected 401 AppError on replay, got %v", err)
	}

	// The rotated token still works
	if _, err := svc.Refresh(rotated.RefreshToken, "", ""); err != nil {
		t.Fatalf("rotated token should refresh: %v", err)
	}
}

func TestRevokeRefreshToken(t *testing.T) {
	svc, _ := newAuthService(t)

	result, err := svc.Signup(&SignupRequest{
		Username: "dev", Password: "correct-horse", Email: "d@example.com", DisplayName: "Dev",
	}, "", "")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if err := svc.RevokeRefreshToken(result.RefreshToken); err != nil {
		t.Fatalf("RevokeRefreshToken failed: %v", err)
	}
	if _, err := svc.Refresh(result.RefreshToken, "", ""); err == nil {
		t.Error("revoked token must not refresh")
	}

	// Revoking the empty string is a no-op
	if err := svc.RevokeRefreshToken(""); err != nil {
		t.Errorf("empty revoke should be a no-op, got %v", err)
	}
}

func TestSignup_AssignsUserRole(t *testing.T) {
	svc, _ := newAuthService(t)

	result, err := svc.Signup(&SignupRequest{
		Username: "plaindev", Password: "correct-horse", DisplayName: "Plain Dev",
	}, "", "")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if result.User.Role != models.RoleUser {
		t.Errorf("Role = %q, expected %q", result.User.Role, models.RoleUser)
	}

	claims, err := utils.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Role != models.RoleUser {
		t.Errorf("claims Role = %q, expected %q", claims.Role, models.RoleUser)
	}
}

func TestProfileEdit_CannotEscalateTokenRole(t *testing.T) {
	svc, db := newAuthService(t)

	result, err := svc.Signup(&SignupRequest{
		Username: "escalator", Password: "correct-horse", DisplayName: "Esca Lator",
	}, "", "")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	// PrimaryRole is free-text profile data; writing "admin" into it
	// must not change the authorization role on subsequent tokens.
	userSvc := NewUserService(db)
	if _, err := userSvc.UpdateProfile(result.User.ID, &UpdateProfileRequest{PrimaryRole: "admin"}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	login, err := svc.Login(&LoginRequest{Username: "escalator", Password: "correct-horse"}, "", "")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	claims, err := utils.ParseToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Role != models.RoleUser {
		t.Errorf("claims Role = %q, expected %q", claims.Role, models.RoleUser)
	}
	if login.User.PrimaryRole != "admin" {
		t.Errorf("PrimaryRole = %q, the profile field itself should update", login.User.PrimaryRole)
	}

	refreshed, err := svc.Refresh(login.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	refreshedClaims, err := utils.ParseToken(refreshed.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if refreshedClaims.Role != models.RoleUser {
		t.Errorf("refreshed claims Role = %q, expected %q", refreshedClaims.Role, models.RoleUser)
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	svc, db := newAuthService(t)

	if err := svc.CreateAdminIfNotExists("hunter2"); err != nil {
		t.Fatalf("CreateAdminIfNotExists failed: %v", err)
	}

	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err != nil {
		t.Fatalf("admin account not created: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("Role = %q, expected %q", admin.Role, models.RoleAdmin)
	}

	// Idempotent while an admin exists
	if err := svc.CreateAdminIfNotExists("other"); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count != 1 {
		t.Errorf("admin count = %d, expected 1", count)
	}

	login, err := svc.Login(&LoginRequest{Username: "admin", Password: "hunter2"}, "", "")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	claims, err := utils.ParseToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("claims Role = %q, expected %q", claims.Role, models.RoleAdmin)
	}
}
