package config

import (
	"strings" // String manipulation
	"time"    // Durations

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Environment lookup with defaults
)

// Config holds the application configuration
type Config struct {
	AppPort string // Application port
	IsProd  bool   // Is production environment

	DBDriver   string // mysql or sqlite
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	DBPath     string // SQLite database file

	JWTSecret string        // JWT secret key
	JWTTTL    time.Duration // Token lifetime

	RedisAddr string // Redis server address, empty disables login throttling
	RedisPass string // Redis password
	RedisDB   int    // Redis database number

	LoginMaxAttempts int           // Failed logins allowed per window
	LoginWindow      time.Duration // Throttle window

	GoogleClientID string // OAuth client id used as token audience

	StorageDriver string // disk or s3
	UploadDir     string // Directory for disk storage
	BaseURL       string // Public base URL prepended to disk storage URLs

	S3Endpoint     string // Custom S3 endpoint (MinIO etc.)
	S3Region       string // AWS region
	S3Bucket       string // Bucket name
	S3AccessKey    string // Access key id
	S3SecretKey    string // Secret access key
	S3UsePathStyle bool   // Path style addressing
	S3PublicURL    string // Public URL prefix for stored objects

	AdminEmail    string // Seed admin email
	AdminPassword string // Seed admin password
	AdminName     string // Seed admin display name
}

// DSN builds the MySQL Data Source Name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=true"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("APP_PORT", "3005")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "travel_photos")
	v.SetDefault("DB_PATH", "travel_photos.db")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_WINDOW", "15m")
	v.SetDefault("STORAGE_DRIVER", "disk")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("ADMIN_EMAIL", "admin@admin.com")
	v.SetDefault("ADMIN_NAME", "Admin")

	return &Config{
		AppPort:          v.GetString("APP_PORT"),
		IsProd:           v.GetBool("IS_PROD"),
		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DBUser:           v.GetString("DB_USER"),
		DBPassword:       v.GetString("DB_PASSWORD"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBName:           v.GetString("DB_NAME"),
		DBPath:           v.GetString("DB_PATH"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTTTL:           v.GetDuration("JWT_TTL"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPass:        v.GetString("REDIS_PASS"),
		RedisDB:          v.GetInt("REDIS_DB"),
		LoginMaxAttempts: v.GetInt("LOGIN_MAX_ATTEMPTS"),
		LoginWindow:      v.GetDuration("LOGIN_WINDOW"),
		GoogleClientID:   v.GetString("GOOGLE_CLIENT_ID"),
		StorageDriver:    strings.ToLower(v.GetString("STORAGE_DRIVER")),
		UploadDir:        v.GetString("UPLOAD_DIR"),
		BaseURL:          strings.TrimRight(v.GetString("BASE_URL"), "/"),
		S3Endpoint:       v.GetString("S3_ENDPOINT"),
		S3Region:         v.GetString("AWS_REGION"),
		S3Bucket:         v.GetString("S3_BUCKET_NAME"),
		S3AccessKey:      v.GetString("AWS_ACCESS_KEY_ID"),
		S3SecretKey:      v.GetString("AWS_SECRET_ACCESS_KEY"),
		S3UsePathStyle:   v.GetBool("S3_USE_PATH_STYLE"),
		S3PublicURL:      strings.TrimRight(v.GetString("S3_PUBLIC_URL"), "/"),
		AdminEmail:       v.GetString("ADMIN_EMAIL"),
		AdminPassword:    v.GetString("ADMIN_PASSWORD"),
		AdminName:        v.GetString("ADMIN_NAME"),
	}
}
