package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // Index parsing

	"travel_photos/internal/middleware" // Current user
	"travel_photos/internal/service"    // Destination service

	"github.com/gin-gonic/gin" // Gin web framework
)

// DestinationRequest is the body of POST and PUT on /api/admin/destinations
type DestinationRequest struct {
	Name string `json:"name"` // Destination name
}

// ListDestinationsHandler returns destinations with their approved photo counts
func ListDestinationsHandler(dest *service.DestinationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := dest.List(c.Request.Context())
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"destinations": list})
	}
}

// CreateDestinationHandler validates a new destination name
func CreateDestinationHandler(dest *service.DestinationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DestinationRequest
		_ = c.ShouldBindJSON(&req) // An unreadable body reads as a missing name
		created, err := dest.Create(c.Request.Context(), req.Name)
		switch {
		case errors.Is(err, service.ErrDestinationNameMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre del destino es requerido"})
		case errors.Is(err, service.ErrDestinationExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Este destino ya existe"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusCreated, gin.H{"destination": created})
		}
	}
}

// RenameDestinationHandler renames the destination at a 1-based index
func RenameDestinationHandler(dest *service.DestinationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DestinationRequest
		_ = c.ShouldBindJSON(&req)
		index, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Destino no encontrado"})
			return
		}
		admin, _ := middleware.CurrentUser(c)
		err = dest.Rename(c.Request.Context(), admin.ID, index, req.Name)
		switch {
		case errors.Is(err, service.ErrDestinationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Destino no encontrado"})
		case errors.Is(err, service.ErrDestinationNameMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre del destino es requerido"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Destino actualizado correctamente"})
		}
	}
}

// RemoveDestinationHandler rejects every approved photo at a location
func RemoveDestinationHandler(dest *service.DestinationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := middleware.CurrentUser(c)
		if _, err := dest.Remove(c.Request.Context(), admin.ID, c.Param("location")); err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Destino eliminado correctamente"})
	}
}
