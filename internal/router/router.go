package router

import (
	"net/http" // HTTP status codes

	"travel_photos/internal/api"        // HTTP handlers
	"travel_photos/internal/domain"     // Photo statuses
	"travel_photos/internal/middleware" // Auth, admin and metrics middleware
	"travel_photos/internal/service"    // Domain services
	"travel_photos/internal/storage"    // Photo storage

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
	"gorm.io/gorm"                                            // GORM ORM library
)

// Setup registers every route and middleware on r
func Setup(r *gin.Engine, db *gorm.DB, store storage.Store, auth *service.AuthService) {
	api.RegisterValidators()

	stats := service.NewStatsService(db)
	moderation := service.NewModerationService(db, store)
	users := service.NewUserService(db)
	destinations := service.NewDestinationService(db)
	photos := service.NewPhotoService(db, store)

	r.Use(middleware.PrometheusMiddleware())

	// Liveness and database reachability
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded images are served directly only for the disk backend
	if disk, ok := store.(*storage.DiskStore); ok {
		r.Static("/uploads", disk.Dir())
	}

	apiGroup := r.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", api.RegisterHandler(auth))
	authGroup.POST("/login", api.LoginHandler(auth))
	authGroup.POST("/google", api.GoogleLoginHandler(auth))

	// Admin routes (protected, admin only)
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(auth), middleware.AdminOnlyMiddleware())
	adminGroup.GET("/stats", api.StatsHandler(stats))
	adminGroup.GET("/photos", api.ListPhotosHandler(moderation, ""))
	adminGroup.GET("/photos/pending", api.ListPhotosHandler(moderation, domain.StatusPending))
	adminGroup.PATCH("/photos/:id/moderate", api.ModeratePhotoHandler(moderation))
	adminGroup.DELETE("/photos/:id", api.DeletePhotoHandler(moderation))
	adminGroup.GET("/destinations", api.ListDestinationsHandler(destinations))
	adminGroup.POST("/destinations", api.CreateDestinationHandler(destinations))
	adminGroup.PUT("/destinations/:id", api.RenameDestinationHandler(destinations))
	adminGroup.DELETE("/destinations/:location", api.RemoveDestinationHandler(destinations))
	adminGroup.GET("/users", api.ListUsersHandler(users))
	adminGroup.PATCH("/users/:id", api.UpdateUserHandler(users))

	// Public routes
	publicGroup := apiGroup.Group("/public")
	publicGroup.GET("/destinations", api.PublicDestinationsHandler(destinations))
	publicGroup.GET("/destinations/:location/photos", api.DestinationPhotosHandler(destinations))

	// Photo routes
	photoGroup := apiGroup.Group("/photos")
	photoGroup.GET("/:id", api.GetPhotoHandler(photos))
	userPhotos := photoGroup.Group("", middleware.JWTAuthMiddleware(auth))
	userPhotos.POST("/upload", api.UploadPhotoHandler(photos))
	userPhotos.GET("/mine", api.MyPhotosHandler(photos))
	userPhotos.DELETE("/:id", api.DeleteOwnPhotoHandler(photos))
	userPhotos.POST("/:id/like", api.LikePhotoHandler(photos))
}
