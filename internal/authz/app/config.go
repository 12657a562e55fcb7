package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/service"
	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Region         string        // Required: region the user pool lives in (AUTHZ_REGION, falls back to AWS_REGION)
	ClientSettings string        // Required: JSON {name, clientId, poolId} of the app client
	PublicKeys     string        // JWKS JSON of the pool's signing keys
	PublicKeysFile string        // Path to a JWKS file, used when PublicKeys is empty
	IssuerHost     string        // Optional: issuer host template (default: cognito-idp.{region}.amazonaws.com)
	ClockSkew      time.Duration // Optional: leeway on exp/nbf/iat (default: 10s)

	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: SQLite database file (default: ./authz.db)
	DatabaseURL    string // Required for postgres

	CacheDriver   string // Optional: memory or redis (default: memory)
	CacheCapacity int    // Optional: max entries in the memory cache (default: 100000)
	RedisAddr     string // Optional: redis address (default: localhost:6379)
	RedisPassword string
	RedisDB       int
	CachePrefix   string // Optional: prefix on redis keys (default: authz:)

	IdPTokenURL     string        // Required for login/refresh: provider token endpoint
	IdPRevokeURL    string        // Required for sign-out: provider revocation endpoint
	IdPClientSecret string        // Optional: app client secret
	IdPTimeout      time.Duration // Optional: provider call timeout (default: 10s)

	RefreshMaxAge  time.Duration // Optional: how old an access token may be and still refresh (default: 2h)
	RetentionHours int           // Optional: ledger retention in hours (default: 2)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Ledger sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Region:         getEnvOrDefault("AUTHZ_REGION", os.Getenv("AWS_REGION")),
		ClientSettings: os.Getenv("AUTHZ_CLIENT_SETTINGS"),
		PublicKeys:     os.Getenv("AUTHZ_PUBLIC_KEYS"),
		PublicKeysFile: os.Getenv("AUTHZ_PUBLIC_KEYS_FILE"),
		IssuerHost:     os.Getenv("AUTHZ_ISSUER_HOST"),
		ClockSkew:      getEnvDurationOrDefault("AUTHZ_CLOCK_SKEW", jwtx.DefaultLeeway),

		DatabaseDriver: getEnvOrDefault("AUTHZ_DATABASE_DRIVER", DriverSQLite),
		DatabaseFile:   getEnvOrDefault("AUTHZ_DATABASE_FILE", "authz.db"),
		DatabaseURL:    os.Getenv("AUTHZ_DATABASE_URL"),

		CacheDriver:   getEnvOrDefault("AUTHZ_CACHE_DRIVER", CacheMemory),
		CacheCapacity: getEnvIntOrDefault("AUTHZ_CACHE_CAPACITY", 100000),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),
		CachePrefix:   getEnvOrDefault("AUTHZ_CACHE_PREFIX", "authz:"),

		IdPTokenURL:     os.Getenv("IDP_TOKEN_URL"),
		IdPRevokeURL:    os.Getenv("IDP_REVOKE_URL"),
		IdPClientSecret: os.Getenv("IDP_CLIENT_SECRET"),
		IdPTimeout:      getEnvDurationOrDefault("IDP_TIMEOUT", 10*time.Second),

		RefreshMaxAge:  getEnvDurationOrDefault("REFRESH_MAX_AGE", service.DefaultRefreshMaxAge),
		RetentionHours: getEnvIntOrDefault("TOKEN_RETENTION_HOURS", service.DefaultRetentionHours),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate checks the settings that would otherwise fail at first use.
func (c Config) Validate() error {
	var errs []error

	if c.Region == "" {
		errs = append(errs, errors.New("AUTHZ_REGION or AWS_REGION is required"))
	}
	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("AUTHZ_DATABASE_URL is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.DatabaseDriver))
	}
	switch c.CacheDriver {
	case CacheMemory, CacheRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown cache driver %q", c.CacheDriver))
	}
	// The sweep must not delete records the refresh path still needs.
	if time.Duration(c.RetentionHours)*time.Hour < c.RefreshMaxAge {
		errs = append(errs, fmt.Errorf("TOKEN_RETENTION_HOURS (%d) is shorter than REFRESH_MAX_AGE (%s)",
			c.RetentionHours, c.RefreshMaxAge))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
