package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// Used when SESSION_SECRET / JWT_SECRET are unset. Validate rejects them
	// in production.
	InsecureSessionSecret = "default-secret"
	InsecureJWTSecret     = "default-jwt-secret"
)

type Config struct {
	App       AppConfig
	Auth      AuthConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Snowflake SnowflakeConfig
}

type AppConfig struct {
	Env             string
	Port            string
	BaseURL         string
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	// SessionSecrets is ordered: the first entry signs new cookies, the rest
	// are only accepted when verifying.
	SessionSecrets []string
	JWTSecret      string
	TokenTTL       time.Duration
	SessionMaxAge  time.Duration
	CookieSecure   bool
	DemoEmail      string
	DemoPassword   string
	DemoUserID     string
}

type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	Addr              string
	Password          string
	DB                int
	AuditStreamMaxLen int64
}

type CacheConfig struct {
	L1Capacity int
	L2TTL      time.Duration
}

type RateLimitConfig struct {
	LoginAttempts int
	Window        time.Duration
}

type SnowflakeConfig struct {
	NodeID int64
}

func Load() (*Config, error) {
	// Load .env if it exists (local dev), ignore if not
	_ = godotenv.Load()

	env := strings.ToLower(getEnv("APP_ENV", EnvDevelopment))

	cfg := &Config{
		App: AppConfig{
			Env:             env,
			Port:            getEnv("PORT", "3000"),
			BaseURL:         getEnv("BASE_URL", "http://localhost:3000"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			SessionSecrets: getEnvAsList("SESSION_SECRET", nil),
			JWTSecret:      getEnv("JWT_SECRET", ""),
			TokenTTL:       getEnvAsDuration("JWT_TTL", time.Hour),
			SessionMaxAge:  getEnvAsDuration("SESSION_MAX_AGE", 7*24*time.Hour),
			CookieSecure:   getEnvAsBool("COOKIE_SECURE", env == EnvProduction),
			DemoEmail:      getEnv("DEMO_EMAIL", "user@example.com"),
			DemoPassword:   getEnv("DEMO_PASSWORD", "password"),
			DemoUserID:     getEnv("DEMO_USER_ID", "some-unique-user-id"),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_URL", ""),
			MaxConns:        int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("DB_MIN_CONNS", 2)),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:              getEnv("REDIS_ADDR", ""),
			Password:          getEnv("REDIS_PASSWORD", ""),
			DB:                getEnvAsInt("REDIS_DB", 0),
			AuditStreamMaxLen: int64(getEnvAsInt("AUDIT_STREAM_MAXLEN", 10000)),
		},
		Cache: CacheConfig{
			L1Capacity: getEnvAsInt("CACHE_L1_CAPACITY", 500),
			L2TTL:      getEnvAsDuration("CACHE_L2_TTL", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			LoginAttempts: getEnvAsInt("LOGIN_RATE_LIMIT", 5),
			Window:        getEnvAsDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		},
		Snowflake: SnowflakeConfig{
			NodeID: int64(getEnvAsInt("SNOWFLAKE_NODE_ID", 1)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// UsesInsecureDefaults reports whether either secret was left unset. Callers
// apply the fallback with ApplyInsecureDefaults and log a warning.
func (c *Config) UsesInsecureDefaults() bool {
	return len(c.Auth.SessionSecrets) == 0 || c.Auth.JWTSecret == ""
}

func (c *Config) ApplyInsecureDefaults() {
	if len(c.Auth.SessionSecrets) == 0 {
		c.Auth.SessionSecrets = []string{InsecureSessionSecret}
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = InsecureJWTSecret
	}
}

// Validate fails loudly in production when a secret is missing or still set to
// the development fallback.
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive, got %s", c.Auth.SessionMaxAge)
	}

	if !c.IsProduction() {
		return nil
	}

	if len(c.Auth.SessionSecrets) == 0 {
		return errors.New("SESSION_SECRET is required in production")
	}
	for _, secret := range c.Auth.SessionSecrets {
		if secret == InsecureSessionSecret {
			return errors.New("SESSION_SECRET must not use the development default in production")
		}
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.Auth.JWTSecret == InsecureJWTSecret {
		return errors.New("JWT_SECRET must not use the development default in production")
	}
	if c.Database.DSN == "" {
		return errors.New("DATABASE_URL is required in production")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
