package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"travel_photos/internal/service" // Auth service

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Email    string `json:"email"`    // Account email
	Password string `json:"password"` // Plain password
	Name     string `json:"name"`     // Display name
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`    // Account email
	Password string `json:"password"` // Plain password
}

// GoogleLoginRequest is the body of POST /api/auth/google
type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"` // Google id token
}

// RegisterHandler creates a regular user and returns it with a token
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida"})
			return
		}
		res, err := auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email, contraseña y nombre son requeridos"})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "El email ya está registrado"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusCreated, res)
		}
	}
}

// LoginHandler authenticates with email and password
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email y contraseña son requeridos"})
			return
		}
		res, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email y contraseña son requeridos"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Credenciales inválidas"})
		case errors.Is(err, service.ErrBlocked):
			c.JSON(http.StatusForbidden, gin.H{"error": "Usuario bloqueado"})
		case errors.Is(err, service.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Demasiados intentos, inténtalo más tarde"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusOK, res)
		}
	}
}

// GoogleLoginHandler signs in with a Google id token
func GoogleLoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GoogleLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token de Google requerido"})
			return
		}
		res, err := auth.GoogleLogin(c.Request.Context(), req.Token)
		switch {
		case errors.Is(err, service.ErrInvalidGoogleToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token de Google inválido"})
		case errors.Is(err, service.ErrBlocked):
			c.JSON(http.StatusForbidden, gin.H{"error": "Usuario bloqueado"})
		case err != nil:
			serverError(c, err)
		default:
			c.JSON(http.StatusOK, res)
		}
	}
}
