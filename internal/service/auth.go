package service

import (
	"context" // Request scoped cancellation
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Header and email parsing
	"time"    // Token lifetime

	"travel_photos/internal/domain" // User model
	"travel_photos/internal/utils"  // JWT, bcrypt and login throttle

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// AuthResult is returned by every successful sign-in
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService registers users, signs them in and resolves bearer tokens
type AuthService struct {
	db       *gorm.DB
	secret   string
	ttl      time.Duration
	throttle *utils.LoginThrottle
	google   IDTokenVerifier
}

// NewAuthService wires the auth service. throttle and google may be nil.
func NewAuthService(db *gorm.DB, secret string, ttl time.Duration, throttle *utils.LoginThrottle, google IDTokenVerifier) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{db: db, secret: secret, ttl: ttl, throttle: throttle, google: google}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Token issues a bearer token for user
func (s *AuthService) Token(user *domain.User) (string, error) {
	return utils.GenerateJWT(user.ID, s.secret, s.ttl)
}

func (s *AuthService) result(user *domain.User) (*AuthResult, error) {
	token, err := s.Token(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Register creates a regular user with a hashed password
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, ErrMissingCredentials
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken // Email already registered
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{Email: email, Name: name, Password: &hash, Role: domain.RoleUser}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User registered")
	return s.result(user)
}

// Login verifies email and password. The block check runs only once the
// password matches.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	allowed, err := s.throttle.Allowed(ctx, email)
	if err != nil {
		logrus.WithError(err).Warn("Login throttle unavailable") // Fail open when Redis is down
	}
	if !allowed {
		return nil, ErrTooManyAttempts
	}

	var user domain.User
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPassword(user.Password, password)) {
		if terr := s.throttle.RecordFailure(ctx, email); terr != nil {
			logrus.WithError(terr).Warn("Failed to record login failure")
		}
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return nil, ErrBlocked
	}
	if terr := s.throttle.Reset(ctx, email); terr != nil {
		logrus.WithError(terr).Warn("Failed to reset login throttle")
	}
	return s.result(&user)
}

// GoogleLogin signs in with a Google id token, creating the account on first use
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.google == nil {
		return nil, ErrInvalidGoogleToken
	}
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(identity.Email)

	var user domain.User
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		name := strings.TrimSpace(identity.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0] // Fall back to the local part
		}
		sub := identity.Subject
		user = domain.User{Email: email, Name: name, GoogleID: &sub, Role: domain.RoleUser}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create google user: %w", err)
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("Google user created")
	case err != nil:
		return nil, err
	}
	if user.IsBlocked {
		return nil, ErrBlocked
	}
	return s.result(&user)
}

// Authenticate resolves an Authorization header to an unblocked user
func (s *AuthService) Authenticate(ctx context.Context, header string) (*domain.User, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, ErrUnauthenticated
	}
	scheme, token, found := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "bearer") {
		return nil, ErrInvalidToken
	}
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := utils.ParseJWT(token, s.secret) // Signature and expiry
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownPrincipal
		}
		return nil, err
	}
	if user.IsBlocked {
		return nil, ErrBlocked
	}
	return &user, nil
}
