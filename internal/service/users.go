package service

import (
	"context" // Request scoped cancellation
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Search and email normalisation

	"travel_photos/internal/domain" // User model and roles
	"travel_photos/internal/utils"  // Password hashing

	"github.com/google/uuid"     // User ids
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// UserPage is one page of users
type UserPage struct {
	PageMeta
	Users []domain.User `json:"users"`
}

// UserUpdate holds the optional fields an admin may change
type UserUpdate struct {
	IsBlocked *bool
	Role      *string
}

// UserService implements admin user management
type UserService struct {
	db *gorm.DB
}

// NewUserService returns a user service over db
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns regular users, optionally filtered by name or email, newest first
func (s *UserService) List(ctx context.Context, search string, p Page) (*UserPage, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		q = q.Where("role = ?", domain.RoleUser) // Admins are never listed
		if strings.TrimSpace(search) != "" {
			pattern := likePattern(search)
			q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
		return q
	}
	var total int64
	if err := filter(s.db.WithContext(ctx).Model(&domain.User{})).Count(&total).Error; err != nil {
		return nil, err
	}
	users := []domain.User{}
	err := filter(s.db.WithContext(ctx).Model(&domain.User{})).
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &UserPage{PageMeta: NewPageMeta(total, p), Users: users}, nil
}

// Update applies upd to the user id on behalf of actor. Other admins cannot
// be modified and an admin cannot change their own role.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, upd UserUpdate) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	self := user.ID == actor.ID // Admins may block themselves but not change their role
	if user.IsAdmin() && !self {
		return nil, ErrOtherAdmin
	}

	updates := map[string]any{}
	if upd.IsBlocked != nil {
		updates["is_blocked"] = *upd.IsBlocked
	}
	if upd.Role != nil && *upd.Role != "" && !self {
		if !domain.ValidRole(*upd.Role) {
			return nil, ErrInvalidRole
		}
		updates["role"] = *upd.Role
	}
	if len(updates) == 0 {
		return &user, nil // Nothing to change
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	if v, ok := updates["is_blocked"].(bool); ok {
		user.IsBlocked = v
	}
	if v, ok := updates["role"].(string); ok {
		user.Role = v
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"actor_id":   actor.ID,
		"is_blocked": user.IsBlocked,
		"role":       user.Role,
	}).Info("User updated")
	return &user, nil
}

// EnsureAdmin creates the admin account for email, or resets its password and
// role when it already exists. It reports whether the account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, name string) (*domain.User, bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, false, ErrMissingCredentials
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin" // Default display name
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	var user domain.User
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = domain.User{Email: email, Name: name, Password: &hash, Role: domain.RoleAdmin}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, false, fmt.Errorf("create admin: %w", err)
		}
		logrus.WithField("email", email).Info("Admin user created")
		return &user, true, nil
	case err != nil:
		return nil, false, err
	}

	updates := map[string]any{"password": hash, "role": domain.RoleAdmin} // Existing account is promoted and its password reset
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, false, fmt.Errorf("update admin: %w", err)
	}
	user.Password = &hash
	user.Role = domain.RoleAdmin
	logrus.WithField("email", email).Info("Admin user password updated")
	return &user, false, nil
}
