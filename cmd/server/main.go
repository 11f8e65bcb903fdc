package main

import (
	"context"   // Context for Redis and shutdown
	"errors"    // Error matching
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal notification
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"travel_photos/internal/config"  // Custom package for configuration
	"travel_photos/internal/db"      // Database connection and migration
	"travel_photos/internal/router"  // Route registration
	"travel_photos/internal/service" // Domain services
	"travel_photos/internal/storage" // Photo storage
	"travel_photos/internal/utils"   // Login throttle

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database and make sure the schema is current
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatal(err)
	}

	// Setup Redis client for login throttling when configured
	var throttle *utils.LoginThrottle
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		defer redisClient.Close()
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		throttle = utils.NewLoginThrottle(redisClient, cfg.LoginMaxAttempts, cfg.LoginWindow)
	} else {
		logrus.Warn("REDIS_ADDR not set, login throttling disabled")
	}

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("failed to set up storage: %v", err)
	}

	var google service.IDTokenVerifier
	if cfg.GoogleClientID != "" {
		verifier, err := service.NewGoogleVerifier(context.Background(), cfg.GoogleClientID)
		if err != nil {
			logrus.Fatalf("failed to set up Google sign-in: %v", err)
		}
		google = verifier
	} else {
		logrus.Warn("GOOGLE_CLIENT_ID not set, Google sign-in disabled")
	}
	auth := service.NewAuthService(gdb, cfg.JWTSecret, cfg.JWTTTL, throttle, google)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}
	router.Setup(r, gdb, store, auth)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// Wait for an interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("forced shutdown: %v", err)
	}
	logrus.Info("Server stopped")
}
