package handlers

import (
	"github.com/codecrew/backend/internal/middleware"
	"github.com/codecrew/backend/internal/services"
	"github.com/codecrew/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{dashboardService: services.NewDashboardService(db)}
}

// Get aggregates everything the home dashboard needs in one call
// GET /api/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	data, err := h.dashboardService.LoadAll(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, data)
}

// Refresh re-pulls the application-centric slices of the dashboard
// GET /api/dashboard/refresh
func (h *DashboardHandler) Refresh(c *gin.Context) {
	data, err := h.dashboardService.Refresh(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, data)
}
