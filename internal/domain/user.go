package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Roles a user can hold
const (
	RoleUser  = "user"  // Regular uploader
	RoleAdmin = "admin" // Moderator
)

// User Model
type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`                   // Primary key
	Email     string    `gorm:"size:191;uniqueIndex;not null" json:"email,omitempty"` // Unique email, stored lowercase
	Name      string    `gorm:"size:191;not null" json:"name"`                        // Display name
	Password  *string   `gorm:"size:255" json:"-"`                                    // Hashed password, nil for Google accounts
	GoogleID  *string   `gorm:"size:191;uniqueIndex" json:"-"`                        // Google subject, nil for local accounts
	Role      string    `gorm:"size:16;not null;default:user" json:"role,omitempty"`  // Role: user or admin
	IsBlocked bool      `gorm:"not null;default:false" json:"isBlocked"`              // Blocked users cannot authenticate
	CreatedAt time.Time `json:"createdAt"`                                            // Creation timestamp
	UpdatedAt time.Time `json:"updatedAt"`                                            // Update timestamp
}

// BeforeCreate assigns a fresh UUID when none was set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
