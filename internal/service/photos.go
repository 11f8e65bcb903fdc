package service

import (
	"bytes"    // Buffered image bytes
	"context"  // Request scoped cancellation
	"errors"   // Error matching
	"fmt"      // Error wrapping
	"io"       // Upload streams
	"net/http" // Content type sniffing
	"strings"  // Field trimming

	"travel_photos/internal/domain"  // Photo and user models
	"travel_photos/internal/storage" // Image storage backends

	"github.com/google/uuid"     // Object keys and ids
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// MaxUploadSize is the largest accepted image in bytes
const MaxUploadSize = 10 << 20

// allowedImages maps sniffed content types to file extensions
var allowedImages = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// PhotoPage is one page of photos with their full owners
type PhotoPage struct {
	PageMeta
	Photos []domain.Photo `json:"photos"`
}

// PublicOwner is the part of a user shown next to a public photo
type PublicOwner struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PublicPhoto is a photo whose owner carries only public fields.
// Its User field shadows the embedded full owner.
type PublicPhoto struct {
	domain.Photo
	User *PublicOwner `json:"user,omitempty"`
}

// PublicPhotoPage is one page of public photos
type PublicPhotoPage struct {
	PageMeta
	Photos []PublicPhoto `json:"photos"`
}

func publicPhoto(p domain.Photo) PublicPhoto {
	out := PublicPhoto{Photo: p}
	if p.User != nil {
		out.User = &PublicOwner{ID: p.User.ID, Name: p.User.Name}
	}
	return out
}

func publicPage(page *PhotoPage) *PublicPhotoPage {
	out := &PublicPhotoPage{PageMeta: page.PageMeta, Photos: make([]PublicPhoto, 0, len(page.Photos))}
	for _, p := range page.Photos {
		out.Photos = append(out.Photos, publicPhoto(p))
	}
	return out
}

// UploadInput carries a new photo and its metadata
type UploadInput struct {
	Title          string
	Location       string
	Description    string
	TravelDays     int
	Recommendation string
	Latitude       *float64
	Longitude      *float64
	Size           int64     // Declared size of File
	File           io.Reader // Image bytes
}

// PhotoService handles uploads and the owner-facing photo operations
type PhotoService struct {
	db    *gorm.DB
	store storage.Store
}

// NewPhotoService returns a photo service storing images in store
func NewPhotoService(db *gorm.DB, store storage.Store) *PhotoService {
	return &PhotoService{db: db, store: store}
}

// readImage buffers at most MaxUploadSize bytes of r. One extra byte is read
// so that an oversized stream is rejected instead of truncated.
func readImage(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrImageTooLarge
	}
	return data, nil
}

// Upload stores the image and creates a pending photo owned by owner
func (s *PhotoService) Upload(ctx context.Context, owner uuid.UUID, in UploadInput) (*domain.Photo, error) {
	if in.File == nil {
		return nil, ErrMissingImage
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Location == "" || in.Description == "" {
		return nil, ErrInvalidPhoto
	}
	if in.Size > MaxUploadSize {
		return nil, ErrImageTooLarge // Declared size already over the limit
	}
	data, err := readImage(in.File)
	if err != nil {
		return nil, err
	}
	contentType := http.DetectContentType(data) // Sniff, never trust the client's header
	ext, ok := allowedImages[contentType]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	key := uuid.NewString() + ext // Unique object key
	url, err := s.store.Save(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	photo := &domain.Photo{
		Title:          in.Title,
		Location:       in.Location,
		Description:    in.Description,
		TravelDays:     in.TravelDays,
		Recommendation: strings.TrimSpace(in.Recommendation),
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		ImageURL:       url,
		Filename:       key,
		Status:         domain.StatusPending,
		UserID:         owner,
	}
	if err := s.db.WithContext(ctx).Create(photo).Error; err != nil {
		// Remove the stored image so no orphan is left behind
		if derr := s.store.Delete(ctx, key); derr != nil {
			logrus.WithFields(logrus.Fields{"key": key, "error": derr.Error()}).Warn("Failed to remove orphaned upload")
		}
		return nil, fmt.Errorf("create photo: %w", err)
	}
	logrus.WithFields(logrus.Fields{"photo_id": photo.ID, "user_id": owner, "location": photo.Location}).Info("Photo uploaded")
	return photo, nil
}

// ListMine returns the owner's photos in every status, newest first
func (s *PhotoService) ListMine(ctx context.Context, owner uuid.UUID, p Page) (*PublicPhotoPage, error) {
	page, err := findPhotoPage(ctx, s.db, p, false, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", owner)
	})
	if err != nil {
		return nil, err
	}
	return publicPage(page), nil
}

// ownerName limits a preloaded owner to the public fields
func ownerName(q *gorm.DB) *gorm.DB {
	return q.Select("id", "name")
}

// GetApproved returns an approved photo with its owner
func (s *PhotoService) GetApproved(ctx context.Context, id uuid.UUID) (*PublicPhoto, error) {
	var photo domain.Photo
	err := s.db.WithContext(ctx).Preload("User", ownerName).
		Where("id = ? AND status = ?", id, domain.StatusApproved).
		First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPhotoNotFound
	}
	if err != nil {
		return nil, err
	}
	out := publicPhoto(photo)
	return &out, nil
}

// Like increments the like counter of an approved photo
func (s *PhotoService) Like(ctx context.Context, id uuid.UUID) (int, error) {
	res := s.db.WithContext(ctx).Model(&domain.Photo{}).
		Where("id = ? AND status = ?", id, domain.StatusApproved).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1)) // Single statement, no read-modify-write
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrPhotoNotFound // Unknown or not approved
	}
	var likes int
	if err := s.db.WithContext(ctx).Model(&domain.Photo{}).Select("likes").Where("id = ?", id).Row().Scan(&likes); err != nil {
		return 0, err
	}
	return likes, nil
}

// Delete removes a photo owned by actor, or any photo when actor is an admin
func (s *PhotoService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	var photo domain.Photo
	if err := s.db.WithContext(ctx).First(&photo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if !actor.IsAdmin() && photo.UserID != actor.ID {
		return ErrForbidden // Only the owner or an admin may delete
	}
	return removePhoto(ctx, s.db, s.store, &photo, actor.ID)
}

// removePhoto hard-deletes the row, then drops the stored image best-effort
func removePhoto(ctx context.Context, db *gorm.DB, store storage.Store, photo *domain.Photo, actor uuid.UUID) error {
	if err := db.WithContext(ctx).Delete(&domain.Photo{}, "id = ?", photo.ID).Error; err != nil {
		return err
	}
	fields := logrus.Fields{"photo_id": photo.ID, "actor_id": actor}
	if store != nil && photo.Filename != "" {
		if err := store.Delete(ctx, photo.Filename); err != nil {
			fields["error"] = err.Error()
			logrus.WithFields(fields).Warn("Photo deleted but image removal failed")
			return nil
		}
	}
	logrus.WithFields(fields).Info("Photo deleted")
	return nil
}

// findPhotoPage counts the photos matching filter and loads the requested
// page, newest first. fullOwner preloads the whole owner, otherwise only its name.
func findPhotoPage(ctx context.Context, db *gorm.DB, p Page, fullOwner bool, filter func(*gorm.DB) *gorm.DB) (*PhotoPage, error) {
	var total int64
	// Count and Find each get a fresh query built by filter
	if err := filter(db.WithContext(ctx).Model(&domain.Photo{})).Count(&total).Error; err != nil {
		return nil, err
	}
	photos := []domain.Photo{}
	q := filter(db.WithContext(ctx).Model(&domain.Photo{}))
	if fullOwner {
		q = q.Preload("User")
	} else {
		q = q.Preload("User", ownerName)
	}
	err := q.Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return &PhotoPage{PageMeta: NewPageMeta(total, p), Photos: photos}, nil
}
