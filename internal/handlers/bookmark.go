package handlers

import (
	"strconv"

	"github.com/codecrew/backend/internal/middleware"
	"github.com/codecrew/backend/internal/services"
	"github.com/codecrew/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookmarkHandler struct {
	bookmarkService *services.BookmarkService
}

func NewBookmarkHandler(db *gorm.DB) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: services.NewBookmarkService(db)}
}

// Add saves a beacon to the acting user's bookmarks
// POST /api/beacons/:id/bookmark
func (h *BookmarkHandler) Add(c *gin.Context) {
	beaconID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid beacon id")
		return
	}

	bookmark, err := h.bookmarkService.Add(middleware.GetUserID(c), uint(beaconID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bookmark)
}

// Remove deletes a bookmark
// DELETE /api/beacons/:id/bookmark
func (h *BookmarkHandler) Remove(c *gin.Context) {
	beaconID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid beacon id")
		return
	}

	if err := h.bookmarkService.Remove(middleware.GetUserID(c), uint(beaconID)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "bookmark removed"})
}

// List returns the acting user's bookmarks
// GET /api/bookmarks
func (h *BookmarkHandler) List(c *gin.Context) {
	bookmarks, err := h.bookmarkService.List(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, bookmarks)
}
