// Package config loads runtime configuration from the environment. Every
// section has development-safe defaults except the JWT signing secret, which
// must always be provided externally.
package config

import (
	"fmt"
	"time"
)

// Config aggregates all runtime settings.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string
	CORSOrigins     string
	ShutdownTimeout time.Duration
}

// DatabaseConfig configures the Postgres connection pool.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig configures the optional Redis connection used for the audit
// event stream. When Enabled is false the service falls back to log-only
// auditing.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	Stream   string
}

// Address renders host:port for the Redis client.
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AuthConfig configures token issuance and password hashing.
//
// JWTSecret is the process-wide HMAC signing key. It is injected at startup
// and deliberately has no default: a missing secret fails Validate rather
// than silently signing with a compiled-in value.
type AuthConfig struct {
	JWTSecret              string
	Issuer                 string
	AccessTokenTTL         time.Duration
	RefreshTokenTTL        time.Duration
	BcryptCost             int
	RefreshGenerateRetries int
	CleanupInterval        time.Duration
}

// Load reads all sections from the environment.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "vendia"),
			Password:        getEnv("DB_PASSWORD", "vendia"),
			Name:            getEnv("DB_NAME", "vendia"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Stream:   getEnv("REDIS_AUDIT_STREAM", "vendia:auth:audit"),
		},
		Auth: AuthConfig{
			JWTSecret:              getEnv("JWT_SECRET", ""),
			Issuer:                 getEnv("JWT_ISSUER", "vendia"),
			AccessTokenTTL:         getEnvDuration("ACCESS_TOKEN_TTL", 10*time.Minute),
			RefreshTokenTTL:        getEnvDuration("REFRESH_TOKEN_TTL", 5*24*time.Hour),
			BcryptCost:             getEnvInt("BCRYPT_COST", 0),
			RefreshGenerateRetries: getEnvInt("REFRESH_GENERATE_RETRIES", 5),
			CleanupInterval:        getEnvDuration("TOKEN_CLEANUP_INTERVAL", time.Hour),
		},
	}
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	return nil
}
