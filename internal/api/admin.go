package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"travel_photos/internal/middleware" // Current user
	"travel_photos/internal/service"    // Admin services

	"github.com/gin-gonic/gin" // Gin web framework
)

// ModerateRequest is the body of PATCH /api/admin/photos/:id/moderate
type ModerateRequest struct {
	Status string  `json:"status" binding:"required,photostatus"` // approved or rejected
	Reason *string `json:"reason"`                                // Optional moderator note
}

// StatsHandler returns the dashboard snapshot. Failing metrics are reported
// as zero values and never fail the request.
func StatsHandler(stats *service.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, _ := stats.Snapshot(c.Request.Context())
		c.JSON(http.StatusOK, snapshot)
	}
}

// ListPhotosHandler lists photos for moderation. A non-empty status pins the
// filter, otherwise the status query parameter is used.
func ListPhotosHandler(mod *service.ModerationService, status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := service.PhotoFilter{Status: status, Search: c.Query("search")}
		if filter.Status == "" {
			filter.Status = c.Query("status")
		}
		page, err := mod.List(c.Request.Context(), filter, ParsePage(c, 10))
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// ModeratePhotoHandler approves or rejects a photo
func ModeratePhotoHandler(mod *service.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ModerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Estado inválido"})
			return
		}
		id, ok := pathUUID(c, "id")
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Foto no encontrada"})
			return
		}
		admin, _ := middleware.CurrentUser(c)
		photo, err := mod.Moderate(c.Request.Context(), admin.ID, id, req.Status, req.Reason)
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Estado inválido"})
		case errors.Is(err, service.ErrPhotoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Foto no encontrada"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusOK, photo)
		}
	}
}

// DeletePhotoHandler hard-deletes any photo
func DeletePhotoHandler(mod *service.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Foto no encontrada"})
			return
		}
		admin, _ := middleware.CurrentUser(c)
		err := mod.Delete(c.Request.Context(), admin.ID, id)
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Foto no encontrada"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Foto eliminada correctamente"})
		}
	}
}
