package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLength = 32

// Config holds all configuration for the application
type Config struct {
	// Application identity
	App AppConfig

	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Email configuration
	Email EmailConfig

	// Google OAuth configuration
	GoogleOAuth GoogleOAuthConfig

	// CORS configuration
	CORS CORSConfig

	// Redis backs the credential endpoint rate limiter
	Redis RedisConfig

	RateLimit RateLimitConfig

	// Query holds listing defaults
	Query QueryConfig

	Security SecurityConfig
}

// AppConfig holds deployment-level settings
type AppConfig struct {
	Env       string
	PublicURL string
	Issuer    string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	MaxLifetime  time.Duration
	ConnTimeout  time.Duration
	QueryTimeout time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	UseTLS       bool
	UseSSL       bool
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID            string
	ClientSecret        string
	RedirectURL         string
	FrontendRedirectURL string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig is the sliding window applied per client IP
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// QueryConfig holds list endpoint limits
type QueryConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// SecurityConfig holds password hashing and cookie settings
type SecurityConfig struct {
	BcryptCost   int
	HashWorkers  int
	CookieSecure bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file
	if err := godotenv.Load("../.env"); err != nil {
		// Try loading from current directory if not found in parent
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: .env file not found: %v", err)
		}
	}

	config := FromEnv()

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv reads the configuration from the process environment only
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Env:       getEnv("APP_ENV", "production"),
			PublicURL: strings.TrimRight(getEnv("APP_PUBLIC_URL", ""), "/"),
			Issuer:    getEnv("JWT_ISSUER", "createshare"),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "postgres"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getInt32Env("DB_MAX_CONNS", 5),
			MinConns:     getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout:  getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
			QueryTimeout: getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", ""),
			AccessTokenTTL: getDurationEnv("JWT_ACCESS_TTL", 90*24*time.Hour), // 90 days
			ResetTokenTTL:  getDurationEnv("JWT_RESET_TTL", 10*time.Minute),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("EMAIL_FROM", ""),
			FromName:     getEnv("EMAIL_FROM_NAME", "createANDshare"),
			UseTLS:       getBoolEnv("SMTP_USE_TLS", true),
			UseSSL:       getBoolEnv("SMTP_USE_SSL", false),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:            getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret:        getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:         getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/users/google/callback"),
			FrontendRedirectURL: getEnv("GOOGLE_FRONTEND_REDIRECT_URL", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Limit:  getIntEnv("RATE_LIMIT", 10),
			Window: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
		Query: QueryConfig{
			DefaultLimit: getIntEnv("QUERY_DEFAULT_LIMIT", 100),
			MaxLimit:     getIntEnv("QUERY_MAX_LIMIT", 100),
		},
		Security: SecurityConfig{
			BcryptCost:   getIntEnv("BCRYPT_COST", 12),
			HashWorkers:  getIntEnv("HASH_WORKERS", 4),
			CookieSecure: getBoolEnv("COOKIE_SECURE", false),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWT.Secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength))
	}
	if c.Database.URL == "" && c.Database.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required when DATABASE_URL is not set"))
	}
	if c.JWT.AccessTokenTTL <= 0 || c.JWT.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.Query.DefaultLimit <= 0 || c.Query.MaxLimit <= 0 {
		errs = append(errs, errors.New("query limits must be positive"))
	} else if c.Query.DefaultLimit > c.Query.MaxLimit {
		errs = append(errs, errors.New("QUERY_DEFAULT_LIMIT cannot exceed QUERY_MAX_LIMIT"))
	}
	if c.Security.HashWorkers <= 0 {
		errs = append(errs, errors.New("HASH_WORKERS must be positive"))
	}
	if c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate limit and window must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	// Check required email configuration for production
	if !c.IsEmailConfigured() {
		log.Printf("Warning: SMTP credentials not configured. Password reset mail will be logged instead of sent.")
	}

	// Check required Google OAuth configuration
	if !c.IsGoogleOAuthConfigured() {
		log.Println("Warning: Google OAuth credentials not configured. Google login will not work.")
	}

	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// IsDevelopment reports whether APP_ENV selects development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development" || c.App.Env == "dev"
}

// IsEmailConfigured checks if email service is properly configured
func (c *Config) IsEmailConfigured() bool {
	return c.Email.SMTPUsername != "" && c.Email.SMTPPassword != "" && c.Email.FromEmail != ""
}

// IsGoogleOAuthConfigured checks if Google OAuth is properly configured
func (c *Config) IsGoogleOAuthConfigured() bool {
	return c.GoogleOAuth.ClientID != "" && c.GoogleOAuth.ClientSecret != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
