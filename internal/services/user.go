package services

import (
	"errors"
	"strings"

	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/pkg/response"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UpdateProfileRequest struct {
	DisplayName  string  `json:"display_name" binding:"omitempty,max=100"`
	Avatar       string  `json:"avatar" binding:"omitempty,max=500"`
	Bio          string  `json:"bio" binding:"omitempty,max=2000"`
	PortfolioURL string  `json:"portfolio_url" binding:"omitempty,url,max=500"`
	GithubURL    string  `json:"github_url" binding:"omitempty,url,max=500"`
	TwitterURL   string  `json:"twitter_url" binding:"omitempty,url,max=500"`
	Location     string  `json:"location" binding:"omitempty,max=100"`
	PrimaryRole  string  `json:"primary_role" binding:"omitempty,max=100"`
	Experience   string  `json:"experience" binding:"omitempty,oneof=beginner intermediate advanced expert"`
	Available    *bool   `json:"available"`
}

// GetProfile returns a user's public profile by username.
func (s *UserService) GetProfile(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", strings.ToLower(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update for the acting user.
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.DisplayName != "" {
		updates["display_name"] = req.DisplayName
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}
	if req.PortfolioURL != "" {
		updates["portfolio_url"] = req.PortfolioURL
	}
	if req.GithubURL != "" {
		updates["github_url"] = req.GithubURL
	}
	if req.TwitterURL != "" {
		updates["twitter_url"] = req.TwitterURL
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.PrimaryRole != "" {
		updates["primary_role"] = req.PrimaryRole
	}
	if req.Experience != "" {
		updates["experience"] = req.Experience
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}

// SearchUsers matches username and display name against a term.
func (s *UserService) SearchUsers(term string, limit int) ([]models.User, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}

	var users []models.User
	pattern := "%" + term + "%"
	if err := s.db.Model(&models.User{}).
		Where("is_active = ?", true).
		Where("username LIKE ? OR display_name LIKE ?", pattern, pattern).
		Order("username").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
