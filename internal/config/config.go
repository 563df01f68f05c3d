package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	JWT      JWTConfig
	Pricing  PricingConfig
	Ride     RideConfig
	Cache    CacheConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
	Host string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
	MaxConns    int
	MaxIdle     int
	MaxLifetime time.Duration
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// JWTConfig carries the two token horizons. Driver register/login issues
// 15-day tokens, the rider signup/signin flow issues 7-day tokens. The two
// are configured separately and must not be unified.
type JWTConfig struct {
	Secret       string
	RiderExpiry  time.Duration
	DriverExpiry time.Duration
}

type PricingConfig struct {
	BaseFare    float64
	PerKMRate   float64
	PerStopRate float64
}

// RideConfig holds lifecycle behavior toggles.
type RideConfig struct {
	// GuardTerminalCancel rejects cancellation of completed rides when set.
	// The upstream contract imposes no such guard, so it defaults off.
	GuardTerminalCancel bool
}

type CacheConfig struct {
	TTLRides       time.Duration
	TTLRideHistory time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "4000"),
			Env:  getEnv("SERVER_ENV", "development"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			Name:        getEnv("DB_NAME", "swiftride"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MaxIdle:     getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 5),
			MaxLifetime: time.Duration(getEnvAsInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			MaxRetries:  getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 50),
			MinIdleConn: 5,
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
		},
		NewRelic: NewRelicConfig{
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			AppName:    getEnv("NEW_RELIC_APP_NAME", "SwiftRide-Backend"),
			Enabled:    getEnvAsBool("NEW_RELIC_ENABLED", false),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "your_jwt_secret_key_here"),
			RiderExpiry:  parseDuration(getEnv("JWT_RIDER_EXPIRY", "168h"), 168*time.Hour),
			DriverExpiry: parseDuration(getEnv("JWT_DRIVER_EXPIRY", "360h"), 360*time.Hour),
		},
		Pricing: PricingConfig{
			BaseFare:    getEnvAsFloat64("PRICING_BASE_FARE", 30),
			PerKMRate:   getEnvAsFloat64("PRICING_PER_KM_RATE", 12),
			PerStopRate: getEnvAsFloat64("PRICING_PER_STOP_RATE", 10),
		},
		Ride: RideConfig{
			GuardTerminalCancel: getEnvAsBool("RIDE_GUARD_TERMINAL_CANCEL", false),
		},
		Cache: CacheConfig{
			TTLRides:       time.Duration(getEnvAsInt("CACHE_TTL_RIDES_SECONDS", 300)) * time.Second,
			TTLRideHistory: time.Duration(getEnvAsInt("CACHE_TTL_RIDE_HISTORY_SECONDS", 60)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.JWT.Secret == "your_jwt_secret_key_here" && c.Server.Env == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.JWT.RiderExpiry <= 0 || c.JWT.DriverExpiry <= 0 {
		return fmt.Errorf("JWT expiry durations must be positive")
	}
	if c.Pricing.BaseFare < 0 || c.Pricing.PerKMRate < 0 || c.Pricing.PerStopRate < 0 {
		return fmt.Errorf("pricing rates must not be negative")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
