// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront API server and the clothify client
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Email    EmailConfig
	Upload   UploadConfig
	Logging  LoggingConfig
	Client   ClientConfig
	Receipt  ReceiptConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration. An empty Host disables Redis.
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost          int
	PasswordResetExpiry time.Duration
	RateLimitPerMinute  int
	CORSAllowedOrigins  []string
	CORSAllowedMethods  []string
	CORSAllowedHeaders  []string
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	Provider     string // smtp or log
	FromEmail    string
	FromName     string
	ResetURL     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
}

// UploadConfig contains file upload configuration
type UploadConfig struct {
	Path              string
	PublicPrefix      string
	MaxSize           int64
	AllowedExtensions []string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// ClientConfig configures the clothify client core
type ClientConfig struct {
	APIBaseURL        string
	RequestTimeout    time.Duration
	StorageProvider   string // file or redis
	StoragePath       string
	RedisKeyPrefix    string
	RevalidateSession bool
	OrderPolicy       string // first_item or whole_cart
	CatalogCacheTTL   time.Duration
}

// ReceiptConfig contains the store details printed on order receipts
type ReceiptConfig struct {
	StoreName    string
	StoreEmail   string
	StoreWebsite string
	Currency     string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Clothify"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   getEnvAsInt64("SERVER_MAX_BODY_BYTES", 10<<20),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "clothify"),
			User:         getEnv("DB_USER", "clothify"),
			Password:     getEnv("DB_PASSWORD", "clothify"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", ""),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", ""),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),
		},
		Security: SecurityConfig{
			BcryptCost:          getEnvAsInt("BCRYPT_COST", 12),
			PasswordResetExpiry: getEnvAsDuration("PASSWORD_RESET_EXPIRE", time.Hour),
			RateLimitPerMinute:  getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			CORSAllowedMethods:  getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders:  getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
		},
		Email: EmailConfig{
			Provider:     getEnv("EMAIL_PROVIDER", "log"),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@clothify.local"),
			FromName:     getEnv("FROM_NAME", "Clothify"),
			ResetURL:     getEnv("PASSWORD_RESET_URL", "clothify://reset-password"),
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			SMTPUseTLS:   getEnvAsBool("SMTP_USE_TLS", false),
		},
		Upload: UploadConfig{
			Path:              getEnv("UPLOAD_PATH", "./uploads"),
			PublicPrefix:      getEnv("UPLOAD_PUBLIC_PREFIX", "/uploads"),
			MaxSize:           getEnvAsInt64("UPLOAD_MAX_SIZE", 5<<20), // 5MB
			AllowedExtensions: getEnvAsSlice("UPLOAD_ALLOWED_EXTENSIONS", []string{"jpg", "jpeg", "png", "gif", "webp"}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Client: ClientConfig{
			APIBaseURL:        getEnv("API_BASE_URL", "http://localhost:8080/api/v1"),
			RequestTimeout:    getEnvAsDuration("API_REQUEST_TIMEOUT", 15*time.Second),
			StorageProvider:   getEnv("CLIENT_STORAGE", "file"),
			StoragePath:       getEnv("CLIENT_STORAGE_PATH", defaultStoragePath()),
			RedisKeyPrefix:    getEnv("CLIENT_REDIS_PREFIX", "clothify:"),
			RevalidateSession: getEnvAsBool("SESSION_REVALIDATE", true),
			OrderPolicy:       getEnv("CART_ORDER_POLICY", "first_item"),
			CatalogCacheTTL:   getEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		},
		Receipt: ReceiptConfig{
			StoreName:    getEnv("RECEIPT_STORE_NAME", "Clothify"),
			StoreEmail:   getEnv("RECEIPT_STORE_EMAIL", "support@clothify.local"),
			StoreWebsite: getEnv("RECEIPT_STORE_WEBSITE", "https://clothify.local"),
			Currency:     getEnv("RECEIPT_CURRENCY", "INR"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks the settings shared by the server and the client
func (c *Config) Validate() error {
	if c.Client.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	switch c.Client.StorageProvider {
	case "file":
		if c.Client.StoragePath == "" {
			return fmt.Errorf("CLIENT_STORAGE_PATH is required for file storage")
		}
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required for redis storage")
		}
	default:
		return fmt.Errorf("unsupported CLIENT_STORAGE: %s", c.Client.StorageProvider)
	}

	switch c.Client.OrderPolicy {
	case "first_item", "whole_cart":
	default:
		return fmt.Errorf("unsupported CART_ORDER_POLICY: %s", c.Client.OrderPolicy)
	}

	return nil
}

// ValidateServer checks the settings only the API server needs
func (c *Config) ValidateServer() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}
	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// RedisEnabled reports whether a Redis host is configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".clothify"
	}
	return dir + string(os.PathSeparator) + "clothify"
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
