package services

import (
	"errors"
	"time"

	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/pkg/response"
	"gorm.io/gorm"
)

type ApplicationService struct {
	db *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

type ApplyRequest struct {
	BeaconID      uint   `json:"beacon_id" binding:"required"`
	Motivation    string `json:"motivation" binding:"required,min=20,max=4000"`
	Answers       string `json:"answers"`
	RequestedRole string `json:"requested_role" binding:"omitempty,max=100"`
}

type ReviewRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted rejected"`
	Note     string `json:"note" binding:"omitempty,max=2000"`
}

// Apply submits an application for a beacon.
func (s *ApplicationService) Apply(applicantID uint, req *ApplyRequest) (*models.Application, error) {
	var beacon models.Beacon
	if err := s.db.First(&beacon, req.BeaconID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("beacon not found")
		}
		return nil, err
	}

	if beacon.Status != models.BeaconStatusActive {
		return nil, response.NewBadRequest("beacon is not accepting applications")
	}
	if beacon.OwnerID == applicantID {
		return nil, response.NewBadRequest("you cannot apply to your own beacon")
	}
	if beacon.CurrentMembers >= beacon.MaxMembers {
		return nil, response.NewConflict("beacon is at capacity")
	}

	var open int64
	s.db.Model(&models.Application{}).
		Where("beacon_id = ? AND applicant_id = ? AND status = ?", req.BeaconID, applicantID, models.ApplicationPending).
		Count(&open)
	if open > 0 {
		return nil, response.NewConflict("you already have a pending application for this beacon")
	}

	var member int64
	s.db.Model(&models.Membership{}).
		Where("beacon_id = ? AND user_id = ? AND left_at IS NULL", req.BeaconID, applicantID).
		Count(&member)
	if member > 0 {
		return nil, response.NewConflict("you are already a member of this beacon")
	}

	application := models.Application{
		BeaconID:      req.BeaconID,
		ApplicantID:   applicantID,
		Motivation:    req.Motivation,
		Answers:       req.Answers,
		RequestedRole: req.RequestedRole,
		Status:        models.ApplicationPending,
	}
	if err := s.db.Create(&application).Error; err != nil {
		return nil, err
	}

	return &application, nil
}

// Review resolves a pending application. Only the owning beacon's owner
// may review; acceptance opens a membership and bumps the member count
// atomically with the status change.
func (s *ApplicationService) Review(reviewerID, applicationID uint, req *ReviewRequest) (*models.Application, error) {
	var application models.Application
	if err := s.db.Preload("Beacon").First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("application not found")
		}
		return nil, err
	}

	if application.Beacon == nil || application.Beacon.OwnerID != reviewerID {
		return nil, response.NewForbidden("only the beacon owner can review applications")
	}
	if application.Status != models.ApplicationPending {
		return nil, response.NewConflict("application already reviewed")
	}

	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.Decision == models.ApplicationAccepted {
			var beacon models.Beacon
			if err := tx.First(&beacon, application.BeaconID).Error; err != nil {
				return err
			}
			if beacon.CurrentMembers >= beacon.MaxMembers {
				return response.NewConflict("beacon is at capacity")
			}

			role := models.MemberRoleMember
			membership := models.Membership{
				BeaconID: application.BeaconID,
				UserID:   application.ApplicantID,
				Role:     role,
				IsActive: true,
				JoinedAt: now,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
			if err := tx.Model(&beacon).
				UpdateColumn("current_members", gorm.Expr("current_members + 1")).Error; err != nil {
				return err
			}
		}

		return tx.Model(&application).Updates(map[string]interface{}{
			"status":        req.Decision,
			"reviewer_note": req.Note,
			"reviewed_at":   now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	application.Status = req.Decision
	application.ReviewerNote = req.Note
	application.ReviewedAt = &now

	kind := models.NotificationApplicationRejected
	title := "Application declined"
	if req.Decision == models.ApplicationAccepted {
		kind = models.NotificationApplicationAccepted
		title = "Application accepted"
	}
	EnqueueNotification(&NotificationTask{
		UserID:   application.ApplicantID,
		Kind:     kind,
		Title:    title,
		Body:     req.Note,
		BeaconID: &application.BeaconID,
	})

	return &application, nil
}

// ForOwner returns applications against beacons the user owns.
func (s *ApplicationService) ForOwner(ownerID uint) ([]models.Application, error) {
	var applications []models.Application
	if err := s.db.Preload("Beacon").Preload("Applicant").
		Joins("JOIN beacons ON beacons.id = applications.beacon_id").
		Where("beacons.owner_id = ? AND beacons.deleted_at IS NULL", ownerID).
		Order("applications.created_at DESC").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

// ForApplicant returns applications the user submitted.
func (s *ApplicationService) ForApplicant(applicantID uint) ([]models.Application, error) {
	var applications []models.Application
	if err := s.db.Preload("Beacon").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

// Entitled returns every application the user may see: rows on beacons
// they own plus rows they submitted. The dashboard partitions this
// client side of the query.
func (s *ApplicationService) Entitled(userID uint) ([]models.Application, error) {
	var applications []models.Application
	if err := s.db.Preload("Beacon").Preload("Applicant").
		Joins("JOIN beacons ON beacons.id = applications.beacon_id").
		Where("beacons.deleted_at IS NULL").
		Where("beacons.owner_id = ? OR applications.applicant_id = ?", userID, userID).
		Order("applications.created_at DESC").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}
