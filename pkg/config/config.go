package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// RedisConfig holds the redis connection URL
type RedisConfig struct {
	URL string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// AdminConfig holds the demo admin credentials.
// PasswordHash wins over Password when both are set.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

// StoreConfig selects the catalogue and lead storage backend
type StoreConfig struct {
	Driver string
}

// VisitorConfig holds visitor tracking configuration
type VisitorConfig struct {
	Store        string
	Dir          string
	CookieName   string
	CooldownDays int
	PopupDelay   time.Duration
}

// StorageConfig holds media storage configuration
type StorageConfig struct {
	RootDir       string
	PublicBaseURL string
	MaxImageBytes int64
	MaxVideoBytes int64
}

// WhatsAppConfig holds lead capture and messaging configuration
type WhatsAppConfig struct {
	BusinessNumber     string
	DefaultCountryCode string
	DuplicateWindow    time.Duration
}

// RateLimitConfig holds limits for public write endpoints
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Log         LogConfig
	Admin       AdminConfig
	Store       StoreConfig
	Visitor     VisitorConfig
	Storage     StorageConfig
	WhatsApp    WhatsAppConfig
	RateLimit   RateLimitConfig
}

// Load loads configuration from the .env file and environment variables
func Load(serviceName string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	port := getEnv("SERVER_PORT", "8080")

	config := &Config{
		ServiceName: serviceName,
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "muahib_stores"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Error),
		},
		Server: ServerConfig{
			Port:           port,
			Env:            getEnv("APP_ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "defaultsecretkey"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			Password:     getEnv("ADMIN_PASSWORD", "admin123"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "postgres"),
		},
		Visitor: VisitorConfig{
			Store:        getEnv("VISITOR_STORE", "memory"),
			Dir:          getEnv("VISITOR_DIR", "data/visitors"),
			CookieName:   getEnv("VISITOR_COOKIE_NAME", "muahib_visitor_id"),
			CooldownDays: getEnvAsInt("POPUP_COOLDOWN_DAYS", 30),
			PopupDelay:   getEnvAsDuration("POPUP_DELAY", 2*time.Second),
		},
		Storage: StorageConfig{
			RootDir:       getEnv("STORAGE_ROOT", "static/storage"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_URL", "http://localhost:"+port+"/storage/v1/object/public"),
			MaxImageBytes: int64(getEnvAsInt("STORAGE_MAX_IMAGE_BYTES", 5*1024*1024)),
			MaxVideoBytes: int64(getEnvAsInt("STORAGE_MAX_VIDEO_BYTES", 50*1024*1024)),
		},
		WhatsApp: WhatsAppConfig{
			BusinessNumber:     getEnv("WHATSAPP_BUSINESS_NUMBER", "2348144493361"),
			DefaultCountryCode: getEnv("WHATSAPP_COUNTRY_CODE", "+234"),
			DuplicateWindow:    getEnvAsDuration("WHATSAPP_DUPLICATE_WINDOW", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 5),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 2),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Visitor.Store {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("unsupported VISITOR_STORE %q", c.Visitor.Store)
	}
	if c.Visitor.CooldownDays <= 0 {
		return fmt.Errorf("POPUP_COOLDOWN_DAYS must be positive, got %d", c.Visitor.CooldownDays)
	}
	return nil
}

// IsProduction reports whether the service runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("store_driver", c.Store.Driver),
		zap.String("visitor_store", c.Visitor.Store),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
		zap.String("storage_root", c.Storage.RootDir),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get comma separated environment variables
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
