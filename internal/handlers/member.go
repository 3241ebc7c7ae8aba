package handlers

import (
	"strconv"

	"github.com/codecrew/backend/internal/middleware"
	"github.com/codecrew/backend/internal/services"
	"github.com/codecrew/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MemberHandler struct {
	membershipService *services.MembershipService
}

func NewMemberHandler(db *gorm.DB) *MemberHandler {
	return &MemberHandler{membershipService: services.NewMembershipService(db)}
}

// ListMembers returns the active roster of a beacon
// GET /api/beacons/:id/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	beaconID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid beacon id")
		return
	}

	members, err := h.membershipService.ListMembers(uint(beaconID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, members)
}

// Leave removes the acting user from a beacon's roster
// DELETE /api/beacons/:id/membership
func (h *MemberHandler) Leave(c *gin.Context) {
	beaconID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid beacon id")
		return
	}

	if err := h.membershipService.Leave(middleware.GetUserID(c), uint(beaconID)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "left beacon"})
}

// RemoveMember expels another member from a beacon (owner only)
// DELETE /api/beacons/:id/members/:userId
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	beaconID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid beacon id")
		return
	}
	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.membershipService.RemoveMember(middleware.GetUserID(c), uint(beaconID), uint(targetID)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "member removed"})
}
