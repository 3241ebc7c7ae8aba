package services

import (
	"errors"
	"sync"

	"github.com/codecrew/backend/internal/models"
	"gorm.io/gorm"
)

// DashboardService assembles the four per-user views the dashboard
// renders: applications on owned beacons, applications submitted,
// bookmarks, and active memberships.
type DashboardService struct {
	db             *gorm.DB
	applicationSvc *ApplicationService
	bookmarkSvc    *BookmarkService
	membershipSvc  *MembershipService
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{
		db:             db,
		applicationSvc: NewApplicationService(db),
		bookmarkSvc:    NewBookmarkService(db),
		membershipSvc:  NewMembershipService(db),
	}
}

type DashboardData struct {
	OwnerApplications     []models.Application `json:"owner_applications"`
	ApplicantApplications []models.Application `json:"applicant_applications"`
	Bookmarks             []models.Bookmark    `json:"bookmarks"`
	Memberships           []models.Membership  `json:"memberships"`
}

type DashboardRefresh struct {
	OwnerApplications     []models.Application `json:"owner_applications"`
	ApplicantApplications []models.Application `json:"applicant_applications"`
	Bookmarks             []models.Bookmark    `json:"bookmarks"`
}

// LoadAll issues the four underlying queries concurrently; they have no
// ordering dependency. Missing rows yield empty lists. Query failures
// are joined and surfaced rather than downgraded to empty results, so
// the caller can tell "no data" from "fetch failed".
func (s *DashboardService) LoadAll(userID uint) (*DashboardData, error) {
	data := &DashboardData{
		OwnerApplications:     []models.Application{},
		ApplicantApplications: []models.Application{},
		Bookmarks:             []models.Bookmark{},
		Memberships:           []models.Membership{},
	}

	var wg sync.WaitGroup
	errs := make([]error, 4)

	wg.Add(4)
	go func() {
		defer wg.Done()
		if rows, err := s.applicationSvc.ForOwner(userID); err != nil {
			errs[0] = err
		} else if rows != nil {
			data.OwnerApplications = rows
		}
	}()
	go func() {
		defer wg.Done()
		if rows, err := s.applicationSvc.ForApplicant(userID); err != nil {
			errs[1] = err
		} else if rows != nil {
			data.ApplicantApplications = rows
		}
	}()
	go func() {
		defer wg.Done()
		if rows, err := s.bookmarkSvc.List(userID); err != nil {
			errs[2] = err
		} else if rows != nil {
			data.Bookmarks = rows
		}
	}()
	go func() {
		defer wg.Done()
		if rows, err := s.membershipSvc.ActiveMemberships(userID); err != nil {
			errs[3] = err
		} else if rows != nil {
			data.Memberships = rows
		}
	}()
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return data, nil
}

// Refresh re-issues the combined applications query and the bookmarks
// query, then partitions the application rows by applicant identity:
// a row belongs to the applicant view iff its applicant is the viewing
// user, otherwise to the owner view. Memberships are not refreshed
// post-load.
func (s *DashboardService) Refresh(userID uint) (*DashboardRefresh, error) {
	refresh := &DashboardRefresh{
		OwnerApplications:     []models.Application{},
		ApplicantApplications: []models.Application{},
		Bookmarks:             []models.Bookmark{},
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	var applications []models.Application

	wg.Add(2)
	go func() {
		defer wg.Done()
		rows, err := s.applicationSvc.Entitled(userID)
		if err != nil {
			errs[0] = err
			return
		}
		applications = rows
	}()
	go func() {
		defer wg.Done()
		if rows, err := s.bookmarkSvc.List(userID); err != nil {
			errs[1] = err
		} else if rows != nil {
			refresh.Bookmarks = rows
		}
	}()
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	owner, applicant := PartitionApplications(applications, userID)
	refresh.OwnerApplications = owner
	refresh.ApplicantApplications = applicant
	return refresh, nil
}

// PartitionApplications splits rows into (owner view, applicant view)
// by comparing applicant identity to the viewing user. The rows are
// assumed to already be filtered to what the user is entitled to see.
func PartitionApplications(rows []models.Application, userID uint) (owner, applicant []models.Application) {
	owner = []models.Application{}
	applicant = []models.Application{}
	for _, row := range rows {
		if row.ApplicantID == userID {
			applicant = append(applicant, row)
		} else {
			owner = append(owner, row)
		}
	}
	return owner, applicant
}
