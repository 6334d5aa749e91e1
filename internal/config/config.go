package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the ID-card service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	JWTSecret              string
	JWTTTL                 time.Duration
	SessionTTL             time.Duration
	CookieSecure           bool
	CORSOrigins            string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	UploadMaxMB            int
	DashboardCacheTTL      time.Duration
	NATSURL                string
	NATSSubjectPrefix      string
	SeedEnabled            bool
	SeedToken              string
	SuperAdminEmail        string
	SuperAdminPassword     string
	LoginRateLimit         int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// RequestBodyLimit is the largest request body accepted, in bytes. Images may arrive as base64
// data URLs, which are 4/3 the size of the raw upload, plus one megabyte for the other form fields.
func (c Config) RequestBodyLimit() int {
	const megabyte = 1024 * 1024
	return c.UploadMaxMB*megabyte*4/3 + megabyte
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("IDCARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ID Card API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "3000")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("cookie.secure", false)
	v.SetDefault("cors.origins", "*")
	v.SetDefault("cloudinary.folder", "school-assets")
	v.SetDefault("upload.max_mb", 5)
	v.SetDefault("dashboard.cache_ttl", "1m")
	v.SetDefault("nats.subject_prefix", "idcard")
	v.SetDefault("seed.enabled", false)
	v.SetDefault("login.rate_limit", 10)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	jwtTTL, err := parseDuration(v.GetString("jwt.ttl"), 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	sessionTTL, err := parseDuration(v.GetString("session.ttl"), 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}

	cacheTTL, err := parseDuration(v.GetString("dashboard.cache_ttl"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTTTL:                 jwtTTL,
		SessionTTL:             sessionTTL,
		CookieSecure:           v.GetBool("cookie.secure"),
		CORSOrigins:            v.GetString("cors.origins"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		UploadMaxMB:            v.GetInt("upload.max_mb"),
		DashboardCacheTTL:      cacheTTL,
		NATSURL:                v.GetString("nats.url"),
		NATSSubjectPrefix:      v.GetString("nats.subject_prefix"),
		SeedEnabled:            v.GetBool("seed.enabled"),
		SeedToken:              v.GetString("seed.token"),
		SuperAdminEmail:        strings.ToLower(strings.TrimSpace(v.GetString("superadmin.email"))),
		SuperAdminPassword:     v.GetString("superadmin.password"),
		LoginRateLimit:         v.GetInt("login.rate_limit"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 5
	}

	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
