package handlers

import (
	"strconv"

	"github.com/codecrew/backend/internal/middleware"
	"github.com/codecrew/backend/internal/services"
	"github.com/codecrew/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{applicationService: services.NewApplicationService(db)}
}

// Apply submits an application to join a beacon
// POST /api/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req services.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	application, err := h.applicationService.Apply(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, application)
}

// Review accepts or rejects a pending application (beacon owner only)
// PUT /api/applications/:id/review
func (h *ApplicationHandler) Review(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid application id")
		return
	}

	var req services.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	application, err := h.applicationService.Review(middleware.GetUserID(c), uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, application)
}

// ListMine returns applications the acting user submitted
// GET /api/applications/mine
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	applications, err := h.applicationService.ForApplicant(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, applications)
}

// ListReceived returns applications against beacons the user owns
// GET /api/applications/received
func (h *ApplicationHandler) ListReceived(c *gin.Context) {
	applications, err := h.applicationService.ForOwner(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, applications)
}
