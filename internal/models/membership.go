package models

import (
	"time"
)

// Membership roles
const (
	MemberRoleOwner  = "owner"
	MemberRoleCoLead = "co_lead"
	MemberRoleMember = "member"
)

// Membership links a user to a beacon with a role. A user has at most
// one open (left_at null) membership per beacon; owner memberships are
// never closed through leave/remove.
type Membership struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	BeaconID uint       `gorm:"index:idx_beacon_user;not null" json:"beacon_id"`
	Beacon   *Beacon    `gorm:"foreignKey:BeaconID" json:"beacon,omitempty"`
	UserID   uint       `gorm:"index:idx_beacon_user;not null" json:"user_id"`
	User     *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role     string     `gorm:"size:20;default:member" json:"role"` // owner, co_lead, member
	IsActive bool       `gorm:"default:true" json:"is_active"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}

func (Membership) TableName() string { return "memberships" }
