package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/pkg/response"
	"gorm.io/gorm"
)

type BeaconService struct {
	db        *gorm.DB
	configSvc *SystemConfigService
}

func NewBeaconService(db *gorm.DB) *BeaconService {
	return &BeaconService{db: db, configSvc: NewSystemConfigService(db)}
}

type CreateBeaconRequest struct {
	Title        string   `json:"title" binding:"required,min=5,max=200"`
	Description  string   `json:"description" binding:"required,min=20"`
	BeaconType   string   `json:"beacon_type" binding:"required,oneof=learning portfolio open_source hackathon tutorial research"`
	Category     string   `json:"category" binding:"required,max=100"`
	Difficulty   string   `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	MaxMembers   int      `json:"max_members" binding:"required,min=2"`
	Tags         []string `json:"tags" binding:"max=10"`
	TypeSpecific string   `json:"type_specific_data"`
}

type BeaconListRequest struct {
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
	BeaconType string `form:"beacon_type"`
	Category   string `form:"category"`
	Difficulty string `form:"difficulty"`
}

type BeaconListResponse struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Items    []models.Beacon `json:"items"`
}

type CreatedBeacon struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// Create validates and persists a new beacon. The draft entry point is
// this same operation with draft=true; there is no separate code path.
// Exactly one row is written, together with the owner membership, or
// nothing at all.
func (s *BeaconService) Create(ownerID uint, req *CreateBeaconRequest, draft bool) (*CreatedBeacon, error) {
	if fields := ValidateTypeSpecific(req.BeaconType, req.TypeSpecific); fields != nil {
		return nil, response.NewValidationError("type-specific fields failed validation", fields)
	}

	limit := s.maxMembersCap()
	if req.MaxMembers > limit {
		return nil, response.NewValidationError("invalid capacity", map[string]string{
			"max_members": "must not exceed " + strconv.Itoa(limit),
		})
	}

	status := models.BeaconStatusActive
	if draft {
		status = models.BeaconStatusDraft
	}

	typeSpecific := req.TypeSpecific
	if typeSpecific == "" {
		typeSpecific = "{}"
	}

	beacon := models.Beacon{
		Title:          req.Title,
		Description:    req.Description,
		BeaconType:     req.BeaconType,
		Category:       req.Category,
		Difficulty:     req.Difficulty,
		MaxMembers:     req.MaxMembers,
		CurrentMembers: 1,
		Status:         status,
		OwnerID:        ownerID,
		Tags:           strings.Join(req.Tags, ","),
		TypeSpecific:   typeSpecific,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&beacon).Error; err != nil {
			return err
		}
		membership := models.Membership{
			BeaconID: beacon.ID,
			UserID:   ownerID,
			Role:     models.MemberRoleOwner,
			IsActive: true,
			JoinedAt: time.Now(),
		}
		return tx.Create(&membership).Error
	}); err != nil {
		return nil, err
	}

	return &CreatedBeacon{ID: beacon.ID, Title: beacon.Title, Status: beacon.Status}, nil
}

// ListActive returns active beacons, newest first.
func (s *BeaconService) ListActive(req *BeaconListRequest) (*BeaconListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var beacons []models.Beacon
	var total int64

	query := s.db.Model(&models.Beacon{}).Where("status = ?", models.BeaconStatusActive)

	if req.BeaconType != "" {
		query = query.Where("beacon_type = ?", req.BeaconType)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Difficulty != "" {
		query = query.Where("difficulty = ?", req.Difficulty)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Owner").Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").Find(&beacons).Error; err != nil {
		return nil, err
	}

	return &BeaconListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    beacons,
	}, nil
}

// GetByID returns a single beacon with its owner preloaded.
func (s *BeaconService) GetByID(id uint) (*models.Beacon, error) {
	var beacon models.Beacon
	if err := s.db.Preload("Owner").First(&beacon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("beacon not found")
		}
		return nil, err
	}
	return &beacon, nil
}

// TransitionStatus moves a beacon between statuses. Owner only; the
// transition must be legal for the current status.
func (s *BeaconService) TransitionStatus(actorID, beaconID uint, to string) (*models.Beacon, error) {
	var beacon models.Beacon
	if err := s.db.First(&beacon, beaconID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("beacon not found")
		}
		return nil, err
	}

	if beacon.OwnerID != actorID {
		return nil, response.NewForbidden("only the beacon owner can change its status")
	}
	if !models.ValidStatusTransition(beacon.Status, to) {
		return nil, response.NewBadRequest("cannot transition from " + beacon.Status + " to " + to)
	}

	if err := s.db.Model(&beacon).Update("status", to).Error; err != nil {
		return nil, err
	}
	beacon.Status = to
	return &beacon, nil
}

// SearchBeacons matches title, description and tags against a term.
func (s *BeaconService) SearchBeacons(term string, limit int) ([]models.Beacon, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}

	var beacons []models.Beacon
	pattern := "%" + term + "%"
	if err := s.db.Model(&models.Beacon{}).
		Where("status = ?", models.BeaconStatusActive).
		Where("title LIKE ? OR description LIKE ? OR tags LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&beacons).Error; err != nil {
		return nil, err
	}
	return beacons, nil
}

func (s *BeaconService) maxMembersCap() int {
	value := s.configSvc.GetWithDefault("beacon_max_members_cap", "20")
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 20
	}
	return limit
}
