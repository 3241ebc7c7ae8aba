package models

import "time"

// Notification kinds
const (
	NotificationApplicationAccepted = "application_accepted"
	NotificationApplicationRejected = "application_rejected"
	NotificationMemberRemoved       = "member_removed"
)

// Notification is an in-app message delivered through the task queue.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Kind      string    `gorm:"size:50;not null" json:"kind"`
	Title     string    `gorm:"size:200" json:"title"`
	Body      string    `gorm:"size:2000" json:"body"`
	BeaconID  *uint     `json:"beacon_id,omitempty"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
