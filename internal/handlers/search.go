package handlers

import (
	"strings"

	"github.com/codecrew/backend/internal/services"
	"github.com/codecrew/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SearchHandler struct {
	userService   *services.UserService
	beaconService *services.BeaconService
}

func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{
		userService:   services.NewUserService(db),
		beaconService: services.NewBeaconService(db),
	}
}

type searchResult struct {
	Users   interface{} `json:"users"`
	Beacons interface{} `json:"beacons"`
}

// Search queries users and beacons with a single term
// GET /api/search?q=term
func (h *SearchHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if len([]rune(term)) < 2 {
		response.BadRequest(c, "search term must be at least 2 characters")
		return
	}

	users, err := h.userService.SearchUsers(term, 20)
	if err != nil {
		response.Error(c, err)
		return
	}
	beacons, err := h.beaconService.SearchBeacons(term, 20)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, searchResult{Users: users, Beacons: beacons})
}
