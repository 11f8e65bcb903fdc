package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Moderation states of a photo
const (
	StatusPending  = "pending"  // Awaiting moderation
	StatusApproved = "approved" // Publicly visible
	StatusRejected = "rejected" // Hidden
)

// Photo Model
type Photo struct {
	ID               uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`                   // Primary key
	Title            string    `gorm:"size:255;not null" json:"title"`                       // Photo title
	Location         string    `gorm:"size:191;not null;index" json:"location"`              // Free-text destination
	ImageURL         string    `gorm:"size:512;not null" json:"imageUrl"`                    // Public URL of the stored image
	Filename         string    `gorm:"size:255;not null" json:"filename"`                    // Storage key
	Description      string    `gorm:"type:text;not null" json:"description"`                // Description
	TravelDays       int       `gorm:"not null;default:0" json:"travelDays"`                 // Length of the trip
	Recommendation   string    `gorm:"type:text" json:"recommendation"`                      // Traveller tips
	Latitude         *float64  `json:"latitude,omitempty"`                                   // Optional geotag
	Longitude        *float64  `json:"longitude,omitempty"`                                  // Optional geotag
	Status           string    `gorm:"size:16;not null;default:pending;index" json:"status"` // pending, approved or rejected
	Likes            int       `gorm:"not null;default:0" json:"likes"`                      // Like counter
	UserID           uuid.UUID `gorm:"type:char(36);not null;index" json:"userId"`           // Foreign key to the owner
	User             *User     `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`   // Owner
	ModerationReason *string   `gorm:"size:512" json:"moderationReason,omitempty"`           // Reason given by the moderator
	CreatedAt        time.Time `gorm:"index" json:"createdAt"`                               // Creation timestamp
	UpdatedAt        time.Time `json:"updatedAt"`                                            // Update timestamp
}

// BeforeCreate assigns a fresh UUID when none was set
func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ValidStatus reports whether status is a known moderation state
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ModerationTarget reports whether status can be set by a moderator
func ModerationTarget(status string) bool {
	return status == StatusApproved || status == StatusRejected
}
