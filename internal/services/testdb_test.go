package services

import (
	"testing"
	"time"

	"github.com/codecrew/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// :memory: databases exist per connection; keep the pool at one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Beacon{},
		&models.Membership{},
		&models.Application{},
		&models.Bookmark{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.SystemLog{},
		&models.SystemConfig{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// createTestBeacon persists an active beacon together with its owner
// membership, mirroring what Create does.
func createTestBeacon(t *testing.T, db *gorm.DB, ownerID uint, title string) *models.Beacon {
	t.Helper()
	beacon := &models.Beacon{
		Title:          title,
		Description:    "a test collaboration project with enough detail",
		BeaconType:     models.BeaconTypeLearning,
		Category:       "backend",
		Difficulty:     "intermediate",
		MaxMembers:     5,
		CurrentMembers: 1,
		Status:         models.BeaconStatusActive,
		OwnerID:        ownerID,
		TypeSpecific:   "{}",
	}
	if err := db.Create(beacon).Error; err != nil {
		t.Fatalf("create beacon %s: %v", title, err)
	}
	membership := &models.Membership{
		BeaconID: beacon.ID,
		UserID:   ownerID,
		Role:     models.MemberRoleOwner,
		IsActive: true,
		JoinedAt: time.Now(),
	}
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("create owner membership: %v", err)
	}
	return beacon
}

func addTestMember(t *testing.T, db *gorm.DB, beaconID, userID uint) *models.Membership {
	t.Helper()
	membership := &models.Membership{
		BeaconID: beaconID,
		UserID:   userID,
		Role:     models.MemberRoleMember,
		IsActive: true,
		JoinedAt: time.Now(),
	}
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
	if err := db.Model(&models.Beacon{}).Where("id = ?", beaconID).
		UpdateColumn("current_members", gorm.Expr("current_members + 1")).Error; err != nil {
		t.Fatalf("bump member count: %v", err)
	}
	return membership
}
