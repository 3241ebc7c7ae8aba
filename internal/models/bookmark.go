package models

import "time"

// Bookmark marks a beacon as saved by a user. Existence is the only state.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BeaconID  uint      `gorm:"uniqueIndex:idx_bookmark_pair;not null" json:"beacon_id"`
	Beacon    *Beacon   `gorm:"foreignKey:BeaconID" json:"beacon,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_bookmark_pair;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Bookmark) TableName() string { return "bookmarks" }
