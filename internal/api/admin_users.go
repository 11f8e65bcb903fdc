package api

import (
	"errors"   // Error matching
	"io"       // Empty body detection
	"net/http" // HTTP status codes

	"travel_photos/internal/middleware" // Current user
	"travel_photos/internal/service"    // User service

	"github.com/gin-gonic/gin" // Gin web framework
)

// UpdateUserRequest is the body of PATCH /api/admin/users/:id
type UpdateUserRequest struct {
	IsBlocked *bool   `json:"isBlocked"` // Block or unblock
	Role      *string `json:"role"`      // New role, ignored on self
}

// ListUsersHandler returns regular users, newest first
func ListUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := users.List(c.Request.Context(), c.Query("search"), ParsePage(c, 10))
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// UpdateUserHandler blocks, unblocks or changes the role of a user
func UpdateUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequest
		// A missing body is an empty update
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida"})
			return
		}
		id, ok := pathUUID(c, "id")
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
			return
		}
		admin, _ := middleware.CurrentUser(c)
		user, err := users.Update(c.Request.Context(), admin, id, service.UserUpdate{IsBlocked: req.IsBlocked, Role: req.Role})
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		case errors.Is(err, service.ErrOtherAdmin):
			c.JSON(http.StatusForbidden, gin.H{"error": "No se puede modificar a otro administrador"})
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusOK, user)
		}
	}
}
