package services

import (
	"errors"
	"time"

	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/pkg/response"
	"gorm.io/gorm"
)

type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// ActiveMemberships returns a user's open memberships with beacons
// preloaded.
func (s *MembershipService) ActiveMemberships(userID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := s.db.Preload("Beacon").
		Where("user_id = ? AND is_active = ? AND left_at IS NULL", userID, true).
		Order("joined_at DESC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers returns the open memberships of a beacon.
func (s *MembershipService) ListMembers(beaconID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := s.db.Preload("User").
		Where("beacon_id = ? AND is_active = ? AND left_at IS NULL", beaconID, true).
		Order("joined_at").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// Leave closes the caller's open membership. Owners cannot leave their
// own beacon; they must transfer or cancel it instead.
func (s *MembershipService) Leave(userID, beaconID uint) error {
	var membership models.Membership
	if err := s.db.Where("beacon_id = ? AND user_id = ? AND left_at IS NULL", beaconID, userID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("no open membership for this beacon")
		}
		return err
	}

	if membership.Role == models.MemberRoleOwner {
		return response.NewForbidden("the beacon owner cannot leave")
	}

	return s.close(&membership)
}

// RemoveMember closes another user's membership. Only the beacon owner
// may do this; the owner membership itself is untouchable, and removing
// yourself goes through Leave.
func (s *MembershipService) RemoveMember(actorID, beaconID, targetUserID uint) error {
	if targetUserID == actorID {
		return response.NewBadRequest("use leave to remove yourself")
	}

	var beacon models.Beacon
	if err := s.db.First(&beacon, beaconID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("beacon not found")
		}
		return err
	}
	if beacon.OwnerID != actorID {
		return response.NewForbidden("only the beacon owner can remove members")
	}

	var membership models.Membership
	if err := s.db.Where("beacon_id = ? AND user_id = ? AND left_at IS NULL", beaconID, targetUserID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("no open membership for this user")
		}
		return err
	}

	if membership.Role == models.MemberRoleOwner {
		return response.NewForbidden("owner membership cannot be removed")
	}

	if err := s.close(&membership); err != nil {
		return err
	}

	EnqueueNotification(&NotificationTask{
		UserID:   targetUserID,
		Kind:     models.NotificationMemberRemoved,
		Title:    "Removed from " + beacon.Title,
		Body:     "The beacon owner removed you from the project.",
		BeaconID: &beacon.ID,
	})

	return nil
}

// close sets left_at, clears the activity flag and decrements the
// beacon's member count in one transaction.
func (s *MembershipService) close(membership *models.Membership) error {
	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(membership).Updates(map[string]interface{}{
			"is_active": false,
			"left_at":   now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Beacon{}).
			Where("id = ? AND current_members > 0", membership.BeaconID).
			UpdateColumn("current_members", gorm.Expr("current_members - 1")).Error
	})
}
