package models

import (
	"time"

	"gorm.io/gorm"
)

// Experience tiers
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
	ExperienceExpert       = "expert"
)

// Auth types
const (
	AuthTypeLocal     = "local"
	AuthTypeFederated = "federated"
)

// Authorization roles. Distinct from PrimaryRole, which is free-text
// profile data and carries no privileges.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a CodeCrew account
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password     string         `gorm:"size:255" json:"-"` // Hashed password, empty for federated users
	Role         string         `gorm:"size:20;default:user" json:"role"` // admin, user
	Email        string         `gorm:"size:255" json:"email"`
	DisplayName  string         `gorm:"size:100" json:"display_name"`
	Avatar       string         `gorm:"size:500" json:"avatar"`
	Bio          string         `gorm:"size:2000" json:"bio"`
	PortfolioURL string         `gorm:"size:500" json:"portfolio_url"`
	GithubURL    string         `gorm:"size:500" json:"github_url"`
	TwitterURL   string         `gorm:"size:500" json:"twitter_url"`
	Location     string         `gorm:"size:100" json:"location"`
	PrimaryRole  string         `gorm:"size:100" json:"primary_role"`
	Experience   string         `gorm:"size:20;default:beginner" json:"experience"` // beginner, intermediate, advanced, expert
	Available    bool           `gorm:"default:true" json:"available"`
	AuthType     string         `gorm:"size:20;default:local" json:"auth_type"` // local, federated
	FederatedSub string         `gorm:"size:255;index" json:"-"`                // provider subject for federated sign-in
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLogin    *time.Time     `json:"last_login"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
