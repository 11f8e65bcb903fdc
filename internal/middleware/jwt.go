package middleware

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"travel_photos/internal/domain"  // User model
	"travel_photos/internal/service" // Token resolution

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Context keys set by JWTAuthMiddleware
const (
	UserKey   = "user"   // *domain.User
	UserIDKey = "userID" // uuid.UUID
)

// authErrors maps Auth Guard failures to their HTTP responses
var authErrors = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrUnauthenticated, http.StatusUnauthorized, "No se proporcionó token de autenticación"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "Token inválido o expirado"},
	{service.ErrUnknownPrincipal, http.StatusUnauthorized, "Usuario no encontrado"},
	{service.ErrBlocked, http.StatusForbidden, "Usuario bloqueado"},
}

// JWTAuthMiddleware resolves the bearer token to an unblocked user and stores it in the context
func JWTAuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			for _, e := range authErrors {
				if errors.Is(err, e.err) {
					c.AbortWithStatusJSON(e.status, gin.H{"error": e.message})
					return
				}
			}
			// Database failure while loading the user
			logrus.WithError(err).Error("Failed to authenticate request")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Set(UserKey, user)      // Store the user in context
		c.Set(UserIDKey, user.ID) // Store userID in context
		c.Next()                  // Proceed to the next handler
	}
}

// CurrentUser returns the user attached by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}
