package service

import (
	"context"      // Request scoped cancellation
	"database/sql" // Nullable sums
	"sync"         // Concurrent metrics
	"time"         // Timestamps

	"travel_photos/internal/domain" // Photo and user models

	"github.com/google/uuid"     // Photo ids
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Stats is the admin dashboard snapshot
type Stats struct {
	TotalPhotos    int64          `json:"totalPhotos"`
	TotalUsers     int64          `json:"totalUsers"`
	TotalLikes     int64          `json:"totalLikes"`
	PendingPhotos  int64          `json:"pendingPhotos"`
	ApprovedPhotos int64          `json:"approvedPhotos"`
	RejectedPhotos int64          `json:"rejectedPhotos"`
	ActiveUsers    int64          `json:"activeUsers"`
	BlockedUsers   int64          `json:"blockedUsers"`
	LocationStats  []LocationStat `json:"locationStats"`
	RecentActivity []RecentPhoto  `json:"recentActivity"`
}

// LocationStat counts approved photos at one location
type LocationStat struct {
	Location string `json:"location"`
	Count    int64  `json:"count" gorm:"column:total"`
}

// RecentPhoto is one entry of the recent activity feed
type RecentPhoto struct {
	ID        uuid.UUID    `json:"id"`
	Title     string       `json:"title"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	User      ActivityUser `json:"user" gorm:"-"`
	UserName  string       `json:"-"`
}

// ActivityUser names the owner of a recent photo
type ActivityUser struct {
	Name string `json:"name"`
}

// Fallback labels used when a row has no value
const (
	UnknownLocation = "Desconocido"
	UnknownUserName = "Usuario"
)

// StatsService computes the dashboard snapshot
type StatsService struct {
	db *gorm.DB
}

// NewStatsService returns a stats service over db
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// metric computes one statistic into the snapshot
type metric struct {
	name string
	run  func(ctx context.Context, db *gorm.DB, s *Stats) error
}

func countPhotos(where ...any) func(context.Context, *gorm.DB, *int64) error {
	return func(ctx context.Context, db *gorm.DB, dst *int64) error {
		q := db.WithContext(ctx).Model(&domain.Photo{})
		if len(where) > 0 {
			q = q.Where(where[0], where[1:]...)
		}
		return q.Count(dst).Error
	}
}

func countUsers(where ...any) func(context.Context, *gorm.DB, *int64) error {
	return func(ctx context.Context, db *gorm.DB, dst *int64) error {
		q := db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", domain.RoleUser)
		if len(where) > 0 {
			q = q.Where(where[0], where[1:]...)
		}
		return q.Count(dst).Error
	}
}

// into adapts a counter to a field of the snapshot, leaving it untouched on failure
func into(count func(context.Context, *gorm.DB, *int64) error, field func(*Stats) *int64) func(context.Context, *gorm.DB, *Stats) error {
	return func(ctx context.Context, db *gorm.DB, s *Stats) error {
		var n int64
		if err := count(ctx, db, &n); err != nil {
			return err
		}
		*field(s) = n
		return nil
	}
}

var metrics = []metric{
	{"totalPhotos", into(countPhotos(), func(s *Stats) *int64 { return &s.TotalPhotos })},
	{"totalUsers", into(countUsers(), func(s *Stats) *int64 { return &s.TotalUsers })},
	{"totalLikes", totalLikes},
	{"pendingPhotos", into(countPhotos("status = ?", domain.StatusPending), func(s *Stats) *int64 { return &s.PendingPhotos })},
	{"approvedPhotos", into(countPhotos("status = ?", domain.StatusApproved), func(s *Stats) *int64 { return &s.ApprovedPhotos })},
	{"rejectedPhotos", into(countPhotos("status = ?", domain.StatusRejected), func(s *Stats) *int64 { return &s.RejectedPhotos })},
	{"activeUsers", into(countUsers("is_blocked = ?", false), func(s *Stats) *int64 { return &s.ActiveUsers })},
	{"blockedUsers", into(countUsers("is_blocked = ?", true), func(s *Stats) *int64 { return &s.BlockedUsers })},
	{"locationStats", locationStats},
	{"recentActivity", recentActivity},
}

func totalLikes(ctx context.Context, db *gorm.DB, s *Stats) error {
	var sum sql.NullInt64
	if err := db.WithContext(ctx).Model(&domain.Photo{}).Select("SUM(likes)").Row().Scan(&sum); err != nil {
		return err
	}
	s.TotalLikes = sum.Int64 // NULL on an empty table reads as zero
	return nil
}

func locationStats(ctx context.Context, db *gorm.DB, s *Stats) error {
	var rows []LocationStat
	err := db.WithContext(ctx).Model(&domain.Photo{}).
		Select("location, COUNT(id) AS total").
		Where("status = ?", domain.StatusApproved).
		Group("location").
		Order("total DESC, location ASC").
		Limit(10). // Top ten destinations
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for i := range rows {
		if rows[i].Location == "" {
			rows[i].Location = UnknownLocation
		}
	}
	s.LocationStats = append(s.LocationStats, rows...)
	return nil
}

func recentActivity(ctx context.Context, db *gorm.DB, s *Stats) error {
	var rows []RecentPhoto
	err := db.WithContext(ctx).Table("photos").
		Select("photos.id, photos.title, photos.status, photos.created_at, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = photos.user_id"). // Keep photos whose owner is gone
		Order("photos.created_at DESC").
		Limit(5).
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for i := range rows {
		rows[i].User.Name = rows[i].UserName
		if rows[i].User.Name == "" {
			rows[i].User.Name = UnknownUserName
		}
	}
	s.RecentActivity = append(s.RecentActivity, rows...)
	return nil
}

// Snapshot computes every metric concurrently. A failing metric keeps its zero
// value and is reported in the returned map; the snapshot itself is always usable.
func (svc *StatsService) Snapshot(ctx context.Context) (*Stats, map[string]error) {
	// Arrays start empty so they never serialise as null
	stats := &Stats{LocationStats: []LocationStat{}, RecentActivity: []RecentPhoto{}}
	failures := map[string]error{}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, m := range metrics {
		wg.Add(1)
		// Each metric writes only its own field of stats
		go func(m metric) {
			defer wg.Done()
			if err := m.run(ctx, svc.db, stats); err != nil {
				logrus.WithFields(logrus.Fields{"metric": m.name, "error": err.Error()}).Error("Failed to compute statistic")
				mu.Lock()
				failures[m.name] = err
				mu.Unlock()
			}
		}(m)
	}
	wg.Wait()
	return stats, failures
}
