package services

import (
	"testing"

	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/pkg/response"
)

func validApplyRequest(beaconID uint) *ApplyRequest {
	return &ApplyRequest{
		BeaconID:   beaconID,
		Motivation: "I have shipped two Go services and want to learn more",
	}
}

func TestApply_Success(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")

	svc := NewApplicationService(db)
	application, err := svc.Apply(applicant.ID, validApplyRequest(beacon.ID))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if application.Status != models.ApplicationPending {
		t.Errorf("Status = %q, expected pending", application.Status)
	}
	if application.ApplicantID != applicant.ID {
		t.Errorf("ApplicantID = %d, expected %d", application.ApplicantID, applicant.ID)
	}
}

func TestApply_OwnBeaconRejected(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")

	svc := NewApplicationService(db)
	_, err := svc.Apply(owner.ID, validApplyRequest(beacon.ID))
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 400 {
		t.Fatalf("expected 400 AppError, got %v", err)
	}
}

func TestApply_InactiveBeaconRejected(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")
	db.Model(beacon).Update("status", models.BeaconStatusPaused)

	svc := NewApplicationService(db)
	_, err := svc.Apply(applicant.ID, validApplyRequest(beacon.ID))
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 400 {
		t.Fatalf("expected 400 AppError, got %v", err)
	}
}

func TestApply_DuplicatePendingRejected(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")

	svc := NewApplicationService(db)
	if _, err := svc.Apply(applicant.ID, validApplyRequest(beacon.ID)); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}
	_, err := svc.Apply(applicant.ID, validApplyRequest(beacon.ID))
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}
}

func TestApply_ExistingMemberRejected(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")
	addTestMember(t, db, beacon.ID, member.ID)

	svc := NewApplicationService(db)
	_, err := svc.Apply(member.ID, validApplyRequest(beacon.ID))
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}
}

func TestApply_FullBeaconRejected(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")
	db.Model(beacon).Update("max_members", 1)

	svc := NewApplicationService(db)
	_, err := svc.Apply(applicant.ID, validApplyRequest(beacon.ID))
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}
}

func TestReview_AcceptOpensMembership(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")

	svc := NewApplicationService(db)
	application, err := svc.Apply(applicant.ID, validApplyRequest(beacon.ID))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	reviewed, err := svc.Review(owner.ID, application.ID, &ReviewRequest{
		Decision: models.ApplicationAccepted,
		Note:     "welcome aboard",
	})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if reviewed.Status != models.ApplicationAccepted {
		t.Errorf("Status = %q, expected accepted", reviewed.Status)
	}
	if reviewed.ReviewedAt == nil {
		t.Error("ReviewedAt should be set")
	}

	var membership models.Membership
	if err := db.Where("beacon_id = ? AND user_id = ? AND left_at IS NULL", beacon.ID, applicant.ID).
		First(&membership).Error; err != nil {
		t.Fatalf("membership not created: %v", err)
	}
	if membership.Role != models.MemberRoleMember {
		t.Errorf("Role = %q, expected member", membership.Role)
	}

	var reloaded models.Beacon
	db.First(&reloaded, beacon.ID)
	if reloaded.CurrentMembers != 2 {
		t.Errorf("CurrentMembers = %d, expected 2", reloaded.CurrentMembers)
	}
}

func TestReview_RejectLeavesRosterUntouched(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")

	svc := NewApplicationService(db)
	application, _ := svc.Apply(applicant.ID, validApplyRequest(beacon.ID))

	reviewed, err := svc.Review(owner.ID, application.ID, &ReviewRequest{
		Decision: models.ApplicationRejected,
		Note:     "not this time",
	})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if reviewed.Status != models.ApplicationRejected {
		t.Errorf("Status = %q, expected rejected", reviewed.Status)
	}

	var count int64
	db.Model(&models.Membership{}).
		Where("beacon_id = ? AND user_id = ?", beacon.ID, applicant.ID).
		Count(&count)
	if count != 0 {
		t.Errorf("memberships = %d, expected 0 after rejection", count)
	}
}

func TestReview_NonOwnerForbidden(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	stranger := createTestUser(t, db, "stranger")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")

	svc := NewApplicationService(db)
	application, _ := svc.Apply(applicant.ID, validApplyRequest(beacon.ID))

	_, err := svc.Review(stranger.ID, application.ID, &ReviewRequest{Decision: models.ApplicationAccepted})
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 403 {
		t.Fatalf("expected 403 AppError, got %v", err)
	}
}

func TestReview_AlreadyReviewedConflict(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")

	svc := NewApplicationService(db)
	application, _ := svc.Apply(applicant.ID, validApplyRequest(beacon.ID))
	if _, err := svc.Review(owner.ID, application.ID, &ReviewRequest{Decision: models.ApplicationRejected}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}

	_, err := svc.Review(owner.ID, application.ID, &ReviewRequest{Decision: models.ApplicationAccepted})
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}
}

func TestReview_AcceptAtCapacityConflict(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	beacon := createTestBeacon(t, db, owner.ID, "Test Beacon")

	svc := NewApplicationService(db)
	application, _ := svc.Apply(applicant.ID, validApplyRequest(beacon.ID))

	// Fills up between apply and review
	db.Model(beacon).Update("max_members", 1)

	_, err := svc.Review(owner.ID, application.ID, &ReviewRequest{Decision: models.ApplicationAccepted})
	appErr, ok := err.(*response.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}

	// Transaction must have rolled back: application still pending
	var reloaded models.Application
	db.First(&reloaded, application.ID)
	if reloaded.Status != models.ApplicationPending {
		t.Errorf("Status = %q, expected pending after rollback", reloaded.Status)
	}
}

func TestEntitledRows(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	third := createTestUser(t, db, "third")
	ownBeacon := createTestBeacon(t, db, owner.ID, "Owned Beacon")
	otherBeacon := createTestBeacon(t, db, third.ID, "Other Beacon")

	svc := NewApplicationService(db)
	if _, err := svc.Apply(applicant.ID, validApplyRequest(ownBeacon.ID)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := svc.Apply(owner.ID, validApplyRequest(otherBeacon.ID)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := svc.Apply(applicant.ID, validApplyRequest(otherBeacon.ID)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// owner sees: the row on their beacon + the row they submitted,
	// but not applicant's row on third's beacon
	rows, err := svc.Entitled(owner.ID)
	if err != nil {
		t.Fatalf("Entitled failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("entitled rows = %d, expected 2", len(rows))
	}
	for _, row := range rows {
		if row.ApplicantID != owner.ID && row.BeaconID != ownBeacon.ID {
			t.Errorf("unexpected row: beacon %d applicant %d", row.BeaconID, row.ApplicantID)
		}
	}
}

func TestEntitledRows_ExcludesDeletedBeacons(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	keptBeacon := createTestBeacon(t, db, owner.ID, "Kept Beacon")
	goneBeacon := createTestBeacon(t, db, owner.ID, "Gone Beacon")

	svc := NewApplicationService(db)
	if _, err := svc.Apply(applicant.ID, validApplyRequest(keptBeacon.ID)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := svc.Apply(applicant.ID, validApplyRequest(goneBeacon.ID)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if err := db.Delete(&models.Beacon{}, goneBeacon.ID).Error; err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	// Entitled and ForOwner must agree on which beacons are visible.
	entitled, err := svc.Entitled(owner.ID)
	if err != nil {
		t.Fatalf("Entitled failed: %v", err)
	}
	forOwner, err := svc.ForOwner(owner.ID)
	if err != nil {
		t.Fatalf("ForOwner failed: %v", err)
	}
	if len(entitled) != 1 || len(forOwner) != 1 {
		t.Fatalf("rows = %d entitled / %d forOwner, expected 1 / 1", len(entitled), len(forOwner))
	}
	if entitled[0].BeaconID != keptBeacon.ID {
		t.Errorf("entitled row on beacon %d, expected %d", entitled[0].BeaconID, keptBeacon.ID)
	}
}
