package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Geocoder  GeocoderConfig
	Telemetry TelemetryConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
	CookieSecure      bool
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// AuthConfig controls account lockout after repeated failed logins.
type AuthConfig struct {
	MaxFailedAttempts int
	LockoutDuration   time.Duration
	SessionRetention  time.Duration
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Enabled   bool
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
	OTLPInsecure bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Info("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "hrms_ess"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
		CookieSecure:      getEnvBool("JWT_COOKIE_SECURE", false),
	}

	// Login lockout
	maxAttempts, err := strconv.Atoi(getEnv("AUTH_MAX_FAILED_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_MAX_FAILED_ATTEMPTS: %w", err)
	}
	lockout, err := time.ParseDuration(getEnv("AUTH_LOCKOUT_DURATION", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_LOCKOUT_DURATION: %w", err)
	}
	retention, err := time.ParseDuration(getEnv("AUTH_SESSION_RETENTION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_SESSION_RETENTION: %w", err)
	}
	config.Auth = AuthConfig{
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		SessionRetention:  retention,
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	geoTimeout, err := time.ParseDuration(getEnv("GEOCODER_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid GEOCODER_TIMEOUT: %w", err)
	}
	config.Geocoder = GeocoderConfig{
		BaseURL:   getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		UserAgent: getEnv("GEOCODER_USER_AGENT", "HRMS-ESS-App"),
		Timeout:   geoTimeout,
		Enabled:   getEnvBool("GEOCODER_ENABLED", true),
	}

	config.Telemetry = TelemetryConfig{
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "hrms-ess-backend"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	if c.Auth.MaxFailedAttempts < 1 {
		return fmt.Errorf("AUTH_MAX_FAILED_ATTEMPTS must be at least 1")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the configured business timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
