package handlers

import (
	"strconv"

	"github.com/codecrew/backend/internal/middleware"
	"github.com/codecrew/backend/internal/services"
	"github.com/codecrew/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BeaconHandler struct {
	beaconService *services.BeaconService
}

func NewBeaconHandler(db *gorm.DB) *BeaconHandler {
	return &BeaconHandler{beaconService: services.NewBeaconService(db)}
}

// List returns active beacons
// GET /api/beacons
func (h *BeaconHandler) List(c *gin.Context) {
	var req services.BeaconListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.beaconService.ListActive(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns a single beacon
// GET /api/beacons/:id
func (h *BeaconHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid beacon id")
		return
	}

	beacon, err := h.beaconService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, beacon)
}

// Create validates and creates an active beacon
// POST /api/beacons
func (h *BeaconHandler) Create(c *gin.Context) {
	h.create(c, false)
}

// CreateDraft is the draft entry point: the same operation with status
// forced to draft
// POST /api/beacons/draft
func (h *BeaconHandler) CreateDraft(c *gin.Context) {
	h.create(c, true)
}

func (h *BeaconHandler) create(c *gin.Context, draft bool) {
	var req services.CreateBeaconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.beaconService.Create(middleware.GetUserID(c), &req, draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// TransitionStatus changes a beacon's status (owner only)
// PUT /api/beacons/:id/status
func (h *BeaconHandler) TransitionStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid beacon id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=draft active paused completed cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	beacon, err := h.beaconService.TransitionStatus(middleware.GetUserID(c), uint(id), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, beacon)
}
