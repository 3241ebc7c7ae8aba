package services

import (
	"context"

	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/pkg/response"
	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Deliver writes a notification row; this is the queue processor.
func (s *NotificationService) Deliver(ctx context.Context, task *NotificationTask) error {
	notification := models.Notification{
		UserID:   task.UserID,
		Kind:     task.Kind,
		Title:    task.Title,
		Body:     task.Body,
		BeaconID: task.BeaconID,
	}
	return s.db.WithContext(ctx).Create(&notification).Error
}

// List returns a user's notifications, unread first.
func (s *NotificationService) List(userID uint, limit int) ([]models.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var notifications []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("is_read ASC, created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("notification not found")
	}
	return nil
}
