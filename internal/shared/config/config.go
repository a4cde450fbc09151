package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIBaseURL is used when TRIPDESK_API_URL is not set
const DefaultAPIBaseURL = "http://localhost:5000/api"

// Config holds all configuration for the client and the mock API
type Config struct {
	// Application
	Env      string
	LogLevel string

	// Remote travel API
	API APIConfig

	// Persisted client storage
	Credentials CredentialsConfig

	// Redis configuration
	Redis RedisConfig

	// Session event stream
	Kafka KafkaConfig

	// Development server
	MockAPI MockAPIConfig

	// Database configuration (mock API only)
	Database DatabaseConfig
}

// APIConfig holds the gateway configuration
type APIConfig struct {
	BaseURL  string
	Locale   string
	Timezone string
}

// CredentialsConfig selects where the bearer token lives
type CredentialsConfig struct {
	Driver      string // badger, redis or memory
	BadgerPath  string
	RedisPrefix string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string
}

// KafkaConfig holds the session event publisher configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
}

// MockAPIConfig holds the development server configuration
type MockAPIConfig struct {
	Port        string
	JWTSecret   string
	TokenTTL    time.Duration
	DevEmail    string
	DevPassword string
	FlightShape string // data, flights or array

	SearchCacheEnabled bool
	SearchCacheTTL     time.Duration

	RateLimitEnabled  bool
	RateLimitWindow   time.Duration
	RateLimitRequests int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		API: APIConfig{
			BaseURL:  getEnv("TRIPDESK_API_URL", DefaultAPIBaseURL),
			Locale:   getEnv("TRIPDESK_LOCALE", "en-US"),
			Timezone: getEnv("TRIPDESK_TIMEZONE", "Local"),
		},

		Credentials: CredentialsConfig{
			Driver:      strings.ToLower(getEnv("CREDENTIAL_STORE", "badger")),
			BadgerPath:  getEnv("CREDENTIAL_BADGER_PATH", defaultBadgerPath()),
			RedisPrefix: getEnv("CREDENTIAL_REDIS_PREFIX", "tripdesk:client:"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		Kafka: KafkaConfig{
			Enabled: getBoolEnv("KAFKA_ENABLED", false),
			Brokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_SESSION_TOPIC", "tripdesk-session-events"),
			GroupID: getEnv("KAFKA_CONSUMER_GROUP", "tripdesk-watchers"),
		},

		MockAPI: MockAPIConfig{
			Port:        getEnv("MOCKAPI_PORT", "5000"),
			JWTSecret:   getEnv("MOCKAPI_JWT_SECRET", "tripdesk-dev-secret"),
			TokenTTL:    getDurationEnv("MOCKAPI_TOKEN_TTL", time.Hour),
			DevEmail:    getEnv("MOCKAPI_DEV_EMAIL", "traveler@tripdesk.dev"),
			DevPassword: getEnv("MOCKAPI_DEV_PASSWORD", "tripdesk123"),
			FlightShape: strings.ToLower(getEnv("MOCKAPI_FLIGHT_SHAPE", "data")),

			SearchCacheEnabled: getBoolEnv("MOCKAPI_SEARCH_CACHE_ENABLED", false),
			SearchCacheTTL:     getDurationEnv("MOCKAPI_SEARCH_CACHE_TTL", 5*time.Minute),

			RateLimitEnabled:  getBoolEnv("MOCKAPI_RATE_LIMIT_ENABLED", false),
			RateLimitWindow:   getDurationEnv("MOCKAPI_RATE_LIMIT_WINDOW", time.Minute),
			RateLimitRequests: getIntEnv("MOCKAPI_RATE_LIMIT_REQUESTS", 60),
		},

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "tripdesk_db"),
			User:     getEnv("DB_USER", "tripdesk_user"),
			Password: getEnv("DB_PASSWORD", "tripdesk_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}

	// Build composite values
	if cfg.Database.Host != "" {
		cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	}
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

func defaultBadgerPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".tripdesk"
	}
	return dir + string(os.PathSeparator) + "tripdesk"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// GetMockAPIAddress returns the mock API listen address
func (c *Config) GetMockAPIAddress() string {
	return ":" + c.MockAPI.Port
}

// Location resolves the configured timezone, falling back to the local zone
func (c *Config) Location() *time.Location {
	if c.API.Timezone == "" || c.API.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.API.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
