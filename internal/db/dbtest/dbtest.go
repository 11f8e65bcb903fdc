// Package dbtest provides in-memory databases and fixtures for tests.
package dbtest

import (
	"testing"
	"time"

	"travel_photos/internal/db"
	"travel_photos/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated in-memory SQLite database closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLite("file::memory:", &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// CreateUser inserts a user with the given role and password.
func CreateUser(t testing.TB, gdb *gorm.DB, email, password, role string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)
	u := &domain.User{Email: email, Name: email, Password: &h, Role: role}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

// CreatePhoto inserts a photo owned by owner.
func CreatePhoto(t testing.TB, gdb *gorm.DB, owner uuid.UUID, location, status string) *domain.Photo {
	t.Helper()
	p := &domain.Photo{
		Title:       "photo at " + location,
		Location:    location,
		ImageURL:    "/uploads/" + location + ".jpg",
		Filename:    location + ".jpg",
		Description: "a trip",
		Status:      status,
		UserID:      owner,
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

// CreatePhotoAt inserts a photo with an explicit creation time.
func CreatePhotoAt(t testing.TB, gdb *gorm.DB, owner uuid.UUID, location, status string, at time.Time) *domain.Photo {
	t.Helper()
	p := &domain.Photo{
		Title:       "photo at " + location,
		Location:    location,
		ImageURL:    "/uploads/" + location + ".jpg",
		Filename:    location + ".jpg",
		Description: "a trip",
		Status:      status,
		UserID:      owner,
		CreatedAt:   at,
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}
