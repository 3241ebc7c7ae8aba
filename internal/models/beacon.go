package models

import (
	"time"

	"gorm.io/gorm"
)

// Beacon types (closed enumeration)
const (
	BeaconTypeLearning   = "learning"
	BeaconTypePortfolio  = "portfolio"
	BeaconTypeOpenSource = "open_source"
	BeaconTypeHackathon  = "hackathon"
	BeaconTypeTutorial   = "tutorial"
	BeaconTypeResearch   = "research"
)

// Beacon statuses
const (
	BeaconStatusDraft     = "draft"
	BeaconStatusActive    = "active"
	BeaconStatusPaused    = "paused"
	BeaconStatusCompleted = "completed"
	BeaconStatusCancelled = "cancelled"
)

// Beacon represents a posted collaboration opportunity
type Beacon struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:200;not null" json:"title"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	BeaconType     string         `gorm:"size:50;not null;index" json:"beacon_type"` // learning, portfolio, open_source, hackathon, tutorial, research
	Category       string         `gorm:"size:100;index" json:"category"`
	Difficulty     string         `gorm:"size:20" json:"difficulty"` // beginner, intermediate, advanced
	MaxMembers     int            `gorm:"default:5" json:"max_members"`
	CurrentMembers int            `gorm:"default:1" json:"current_members"`
	Status         string         `gorm:"size:20;default:active;index" json:"status"` // draft, active, paused, completed, cancelled
	OwnerID        uint           `gorm:"not null;index" json:"owner_id"`
	Owner          *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Tags           string         `gorm:"size:500" json:"tags"`                // comma-separated
	TypeSpecific   string         `gorm:"type:text" json:"type_specific_data"` // JSON bag validated per beacon type
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Beacon) TableName() string { return "beacons" }

// ValidStatusTransition reports whether a beacon may move from one
// status to another.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case BeaconStatusDraft:
		return to == BeaconStatusActive || to == BeaconStatusCancelled
	case BeaconStatusActive:
		return to == BeaconStatusPaused || to == BeaconStatusCompleted || to == BeaconStatusCancelled
	case BeaconStatusPaused:
		return to == BeaconStatusActive || to == BeaconStatusCompleted || to == BeaconStatusCancelled
	default:
		// completed and cancelled are terminal
		return false
	}
}
