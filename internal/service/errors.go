package service

import "errors" // Sentinel errors

// Authentication failures
var (
	ErrUnauthenticated    = errors.New("missing bearer token")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnknownPrincipal   = errors.New("token user not found")
	ErrBlocked            = errors.New("user is blocked")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidGoogleToken = errors.New("invalid google id token")
)

// Resource and authorization failures
var (
	ErrForbidden              = errors.New("forbidden")
	ErrPhotoNotFound          = errors.New("photo not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrOtherAdmin             = errors.New("cannot modify another admin")
	ErrInvalidStatus          = errors.New("invalid photo status")
	ErrInvalidRole            = errors.New("invalid role")
	ErrDestinationNotFound    = errors.New("destination not found")
	ErrDestinationExists      = errors.New("destination already exists")
	ErrDestinationNameMissing = errors.New("destination name is required")
	ErrInvalidPhoto           = errors.New("title, location and description are required")
	ErrMissingImage           = errors.New("no image provided")
	ErrUnsupportedImage       = errors.New("only JPEG and PNG images are allowed")
	ErrImageTooLarge          = errors.New("image exceeds the upload size limit")
)
