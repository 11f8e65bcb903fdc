package main

import (
	"context" // Context for database calls

	"travel_photos/internal/config"  // Custom package for configuration
	"travel_photos/internal/db"      // Database connection and migration
	"travel_photos/internal/service" // User management

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Creates the admin account from ADMIN_EMAIL and ADMIN_PASSWORD, resetting the
// password when the account already exists
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logrus.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatal(err)
	}

	admin, created, err := service.NewUserService(gdb).EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	if err != nil {
		logrus.Fatalf("failed to manage admin user: %v", err)
	}
	logrus.WithFields(logrus.Fields{"email": admin.Email, "created": created}).Info("Admin user ready")
}
