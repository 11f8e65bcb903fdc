package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"travel_photos/internal/service" // Public queries

	"github.com/gin-gonic/gin" // Gin web framework
)

// PublicDestinationsHandler returns destinations with a cover image
func PublicDestinationsHandler(dest *service.DestinationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := dest.Public(c.Request.Context())
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"destinations": list})
	}
}

// DestinationPhotosHandler pages through the approved photos of a location
func DestinationPhotosHandler(dest *service.DestinationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := dest.Photos(c.Request.Context(), c.Param("location"), ParsePage(c, 12))
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GetPhotoHandler returns one approved photo
func GetPhotoHandler(photos *service.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Foto no encontrada"})
			return
		}
		photo, err := photos.GetApproved(c.Request.Context(), id)
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Foto no encontrada"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusOK, photo)
		}
	}
}
