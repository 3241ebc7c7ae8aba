package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/pkg/response"
	"gorm.io/gorm"
)

type ChatService struct {
	db            *gorm.DB
	maxMessageLen int
}

func NewChatService(db *gorm.DB, maxMessageLen int) *ChatService {
	if maxMessageLen <= 0 {
		maxMessageLen = 4000
	}
	return &ChatService{db: db, maxMessageLen: maxMessageLen}
}

// RoomName returns the channel name for a beacon's chat.
func RoomName(beaconID uint) string {
	return fmt.Sprintf("beacon:%d", beaconID)
}

// SaveMessage persists a chat message and returns the canonical row,
// identity and timestamp assigned by the store. Broadcast happens only
// after this returns.
func (s *ChatService) SaveMessage(ctx context.Context, beaconID, senderID uint, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, response.NewBadRequest("message content is empty")
	}
	if utf8.RuneCountInString(content) > s.maxMessageLen {
		return nil, response.NewBadRequest("message content is too long")
	}

	message := models.ChatMessage{
		BeaconID: beaconID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		LogError("Chat", "SaveMessage", err.Error(), &senderID, "", "", map[string]interface{}{
			"beacon_id": beaconID,
		})
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Sender").First(&message, message.ID).Error; err != nil {
		LogWarning("Chat", "SaveMessage", "sender preload failed: "+err.Error(), &senderID, "", "", map[string]interface{}{
			"message_id": message.ID,
		})
	}
	return &message, nil
}

// History returns the most recent messages of a beacon's chat in
// chronological order.
func (s *ChatService) History(beaconID uint, limit int) ([]models.ChatMessage, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var messages []models.ChatMessage
	if err := s.db.Preload("Sender").
		Where("beacon_id = ?", beaconID).
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	// Reverse into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// IsMember reports whether the user holds an open membership on the
// beacon; only members may join its chat room.
func (s *ChatService) IsMember(beaconID, userID uint) (bool, error) {
	var membership models.Membership
	err := s.db.Where("beacon_id = ? AND user_id = ? AND left_at IS NULL", beaconID, userID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
