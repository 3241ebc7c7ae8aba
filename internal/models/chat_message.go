package models

import "time"

// ChatMessage belongs to exactly one beacon's chat room. Immutable once
// created.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BeaconID  uint      `gorm:"not null;index" json:"beacon_id"`
	SenderID  uint      `gorm:"not null;index" json:"sender_id"`
	Sender    *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
