package service

import (
	"context" // Request scoped cancellation
	"strings" // Name trimming

	"travel_photos/internal/domain" // Photo model and statuses

	"github.com/google/uuid"     // Actor ids
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// DestinationRemovedReason is recorded on photos rejected by a destination removal
const DestinationRemovedReason = "Destino eliminado por el administrador"

// Destination groups approved photos sharing a location
type Destination struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PhotoCount int64  `json:"photoCount"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// destinationRow is the aggregate read from the photos table
type destinationRow struct {
	Location   string
	PhotoCount int64
	ImageURL   string
}

// DestinationService derives destinations from approved photos
type DestinationService struct {
	db *gorm.DB
}

// NewDestinationService returns a destination service over db
func NewDestinationService(db *gorm.DB) *DestinationService {
	return &DestinationService{db: db}
}

func (s *DestinationService) aggregate(ctx context.Context, withImage bool) ([]Destination, error) {
	cols := "location, COUNT(id) AS photo_count"
	if withImage {
		cols += ", MAX(image_url) AS image_url" // Any stable representative image
	}
	var rows []destinationRow
	err := s.db.WithContext(ctx).Model(&domain.Photo{}).
		Select(cols).
		Where("status = ?", domain.StatusApproved). // Only approved photos make a destination
		Group("location").
		Order("photo_count DESC, location ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]Destination, 0, len(rows))
	for _, r := range rows {
		out = append(out, Destination{ID: r.Location, Name: r.Location, PhotoCount: r.PhotoCount, ImageURL: r.ImageURL})
	}
	return out, nil
}

// List returns the admin view of destinations
func (s *DestinationService) List(ctx context.Context) ([]Destination, error) {
	return s.aggregate(ctx, false)
}

// Public returns destinations with a representative image
func (s *DestinationService) Public(ctx context.Context) ([]Destination, error) {
	return s.aggregate(ctx, true)
}

// Create validates a new destination name. Destinations exist only through
// their photos, so nothing is stored.
func (s *DestinationService) Create(ctx context.Context, name string) (*Destination, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrDestinationNameMissing
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Photo{}).
		Where("location = ? AND status = ?", name, domain.StatusApproved).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDestinationExists
	}
	return &Destination{ID: name, Name: name, PhotoCount: 0}, nil
}

// Rename moves every photo of the index-th distinct location (1-based, all
// statuses, ordered by location) to name
func (s *DestinationService) Rename(ctx context.Context, actor uuid.UUID, index int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrDestinationNameMissing
	}
	if index < 1 {
		return ErrDestinationNotFound // Indexes are 1-based
	}
	var locations []string
	err := s.db.WithContext(ctx).Model(&domain.Photo{}).
		Distinct().
		Order("location ASC").
		Pluck("location", &locations).Error
	if err != nil {
		return err
	}
	if index > len(locations) {
		return ErrDestinationNotFound
	}
	old := locations[index-1] // Location currently at that index
	res := s.db.WithContext(ctx).Model(&domain.Photo{}).
		Where("location = ?", old).
		Update("location", name)
	if res.Error != nil {
		return res.Error
	}
	logrus.WithFields(logrus.Fields{
		"actor_id": actor,
		"from":     old,
		"to":       name,
		"photos":   res.RowsAffected,
	}).Info("Destination renamed")
	return nil
}

// Remove rejects every approved photo at location
func (s *DestinationService) Remove(ctx context.Context, actor uuid.UUID, location string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&domain.Photo{}).
		Where("location = ? AND status = ?", location, domain.StatusApproved).
		Updates(map[string]any{
			"status":            domain.StatusRejected,
			"moderation_reason": DestinationRemovedReason,
		}) // Photos are kept, only hidden
	if res.Error != nil {
		return 0, res.Error
	}
	logrus.WithFields(logrus.Fields{
		"actor_id": actor,
		"location": location,
		"photos":   res.RowsAffected,
	}).Info("Destination removed")
	return res.RowsAffected, nil
}

// Photos returns one page of approved photos at exactly location, newest first
func (s *DestinationService) Photos(ctx context.Context, location string, p Page) (*PublicPhotoPage, error) {
	page, err := findPhotoPage(ctx, s.db, p, false, func(q *gorm.DB) *gorm.DB {
		return q.Where("location = ? AND status = ?", location, domain.StatusApproved) // Exact match, no trimming
	})
	if err != nil {
		return nil, err
	}
	return publicPage(page), nil
}
