package services

import (
	"errors"

	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/pkg/response"
	"gorm.io/gorm"
)

type BookmarkService struct {
	db *gorm.DB
}

func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{db: db}
}

// Add bookmarks a beacon for a user.
func (s *BookmarkService) Add(userID, beaconID uint) (*models.Bookmark, error) {
	var beacon models.Beacon
	if err := s.db.First(&beacon, beaconID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("beacon not found")
		}
		return nil, err
	}

	var count int64
	s.db.Model(&models.Bookmark{}).
		Where("beacon_id = ? AND user_id = ?", beaconID, userID).
		Count(&count)
	if count > 0 {
		return nil, response.NewConflict("beacon already bookmarked")
	}

	bookmark := models.Bookmark{BeaconID: beaconID, UserID: userID}
	if err := s.db.Create(&bookmark).Error; err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// Remove deletes a bookmark; removing a bookmark that does not exist is
// a not-found error.
func (s *BookmarkService) Remove(userID, beaconID uint) error {
	result := s.db.Where("beacon_id = ? AND user_id = ?", beaconID, userID).
		Delete(&models.Bookmark{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("bookmark not found")
	}
	return nil
}

// List returns a user's bookmarks with beacons preloaded, newest first.
func (s *BookmarkService) List(userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	if err := s.db.Preload("Beacon").Preload("Beacon.Owner").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error; err != nil {
		return nil, err
	}
	return bookmarks, nil
}
