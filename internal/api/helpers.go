package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"travel_photos/internal/service" // Pagination types

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Path identifiers
	"github.com/sirupsen/logrus" // Structured logging
)

// maxPageLimit caps the page size a client may request
const maxPageLimit = 100

// ParsePage reads page and limit from the query string. Missing or invalid
// values fall back to page 1 and defaultLimit.
func ParsePage(c *gin.Context, defaultLimit int) service.Page {
	page := 1             // Default page number
	limit := defaultLimit // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// Check and set page size within limits
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = min(v, maxPageLimit)
		}
	}
	return service.Page{Page: page, Limit: limit}
}

// pathUUID parses a path parameter, reporting false when it is not a UUID
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

// serverError logs err and answers 500 with its message
func serverError(c *gin.Context, err error) {
	logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"error":  err.Error(),
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
