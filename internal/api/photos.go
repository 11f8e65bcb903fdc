package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // Coordinate parsing
	"strings"  // Blank field detection

	"travel_photos/internal/middleware" // Current user
	"travel_photos/internal/service"    // Photo service

	"github.com/gin-gonic/gin" // Gin web framework
)

// uploadOverhead is the room left for form fields on top of the image
const uploadOverhead = 1 << 20

// UploadRequest holds the form fields of POST /api/photos/upload
type UploadRequest struct {
	Title          string `form:"title"`          // Required
	Location       string `form:"location"`       // Required
	Description    string `form:"description"`    // Required
	TravelDays     int    `form:"travelDays"`     // Optional
	Recommendation string `form:"recommendation"` // Optional
	Latitude       string `form:"latitude"`       // Optional geotag, blank means none
	Longitude      string `form:"longitude"`      // Optional geotag, blank means none
}

// optionalFloat parses a form value, returning nil when it is blank
func optionalFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// UploadPhotoHandler stores an image and creates a pending photo
func UploadPhotoHandler(photos *service.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxUploadSize+uploadOverhead)
		header, err := c.FormFile("photo")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "El archivo supera el tamaño máximo de 10MB"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "No se han proporcionado archivos"})
			return
		}
		var req UploadRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de la foto inválidos"})
			return
		}
		latitude, err := optionalFloat(req.Latitude)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de la foto inválidos"})
			return
		}
		longitude, err := optionalFloat(req.Longitude)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de la foto inválidos"})
			return
		}
		file, err := header.Open()
		if err != nil {
			serverError(c, err)
			return
		}
		defer file.Close()

		user, _ := middleware.CurrentUser(c)
		photo, err := photos.Upload(c.Request.Context(), user.ID, service.UploadInput{
			Title:          req.Title,
			Location:       req.Location,
			Description:    req.Description,
			TravelDays:     req.TravelDays,
			Recommendation: req.Recommendation,
			Latitude:       latitude,
			Longitude:      longitude,
			Size:           header.Size,
			File:           file,
		})
		switch {
		case errors.Is(err, service.ErrInvalidPhoto):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Título, ubicación y descripción son requeridos"})
		case errors.Is(err, service.ErrUnsupportedImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de archivo no permitido. Solo se permiten JPEG y PNG."})
		case errors.Is(err, service.ErrImageTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"error": "El archivo supera el tamaño máximo de 10MB"})
		case errors.Is(err, service.ErrMissingImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No se han proporcionado archivos"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusCreated, photo)
		}
	}
}

// MyPhotosHandler pages through the caller's photos in every status
func MyPhotosHandler(photos *service.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		page, err := photos.ListMine(c.Request.Context(), user.ID, ParsePage(c, 12))
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// DeleteOwnPhotoHandler deletes a photo owned by the caller, or any photo for admins
func DeleteOwnPhotoHandler(photos *service.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Foto no encontrada"})
			return
		}
		user, _ := middleware.CurrentUser(c)
		err := photos.Delete(c.Request.Context(), user, id)
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Foto no encontrada"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Acceso denegado"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Foto eliminada correctamente"})
		}
	}
}

// LikePhotoHandler adds a like to an approved photo
func LikePhotoHandler(photos *service.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Foto no encontrada"})
			return
		}
		likes, err := photos.Like(c.Request.Context(), id)
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Foto no encontrada"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusOK, gin.H{"likes": likes})
		}
	}
}
