package models

import (
	"time"

	"gorm.io/gorm"
)

// Application statuses
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Application is a user's request to join a beacon, reviewed by the
// beacon owner.
type Application struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	BeaconID      uint           `gorm:"not null;index" json:"beacon_id"`
	Beacon        *Beacon        `gorm:"foreignKey:BeaconID" json:"beacon,omitempty"`
	ApplicantID   uint           `gorm:"not null;index" json:"applicant_id"`
	Applicant     *User          `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Motivation    string         `gorm:"type:text;not null" json:"motivation"`
	Answers       string         `gorm:"type:text" json:"answers"` // optional structured answers, JSON
	RequestedRole string         `gorm:"size:100" json:"requested_role"`
	Status        string         `gorm:"size:20;default:pending;index" json:"status"` // pending, accepted, rejected
	ReviewerNote  string         `gorm:"size:2000" json:"reviewer_note"`
	ReviewedAt    *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Application) TableName() string { return "applications" }
