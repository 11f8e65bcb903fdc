package service

import (
	"context" // Request scoped cancellation
	"errors"  // Error matching
	"strings" // Search normalisation

	"travel_photos/internal/domain"  // Photo model and statuses
	"travel_photos/internal/storage" // Image removal on delete

	"github.com/google/uuid"     // Photo and actor ids
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// PhotoFilter narrows the admin photo listing
type PhotoFilter struct {
	Status string // Exact status, empty for all
	Search string // Case-insensitive match on title or location
}

// ModerationService implements the admin photo operations
type ModerationService struct {
	db    *gorm.DB
	store storage.Store
}

// NewModerationService returns a moderation service. store may be nil.
func NewModerationService(db *gorm.DB, store storage.Store) *ModerationService {
	return &ModerationService{db: db, store: store}
}

// likePattern builds a lower-cased LIKE pattern matching term anywhere
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

// List returns photos matching f with their owners, newest first
func (s *ModerationService) List(ctx context.Context, f PhotoFilter, p Page) (*PhotoPage, error) {
	return findPhotoPage(ctx, s.db, p, true, func(q *gorm.DB) *gorm.DB {
		if f.Status != "" {
			q = q.Where("status = ?", f.Status) // Exact status match
		}
		if strings.TrimSpace(f.Search) != "" {
			pattern := likePattern(f.Search)
			q = q.Where("LOWER(title) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern)
		}
		return q
	})
}

// Moderate sets the status of a photo to approved or rejected. Moderating a
// photo again, even to the same status, is allowed.
func (s *ModerationService) Moderate(ctx context.Context, actor, id uuid.UUID, status string, reason *string) (*domain.Photo, error) {
	if !domain.ModerationTarget(status) {
		return nil, ErrInvalidStatus // Checked before the lookup
	}
	var photo domain.Photo
	if err := s.db.WithContext(ctx).First(&photo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	previous := photo.Status // Logged as the audit trail
	updates := map[string]any{"status": status}
	if reason != nil && strings.TrimSpace(*reason) != "" {
		updates["moderation_reason"] = strings.TrimSpace(*reason) // Blank reasons keep the old one
	}
	if err := s.db.WithContext(ctx).Model(&photo).Updates(updates).Error; err != nil {
		return nil, err
	}
	photo.Status = status // Reflect the update in the returned photo
	if r, ok := updates["moderation_reason"].(string); ok {
		photo.ModerationReason = &r
	}
	logrus.WithFields(logrus.Fields{
		"photo_id": photo.ID,
		"actor_id": actor,
		"from":     previous,
		"to":       status,
	}).Info("Photo moderated")
	return &photo, nil
}

// Delete hard-deletes any photo and removes its stored image
func (s *ModerationService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	var photo domain.Photo
	if err := s.db.WithContext(ctx).First(&photo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	return removePhoto(ctx, s.db, s.store, &photo, actor)
}
