// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles,
// with an optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/Briancute/local-lead-finder/internal/cache"
)

// PlaceholderMapsKey is the value shipped in example env files. It counts
// as no key.
const PlaceholderMapsKey = "your_google_maps_api_key_here"

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"5000"`

	// Database (MongoDB). Empty runs on the in-memory store only.
	MongoURI            string        `env:"MONGODB_URI"`
	MongoDatabase       string        `env:"MONGODB_DATABASE" envDefault:"leadfinder"`
	MongoConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"5s"`

	// Cache (Redis). Empty disables the details cache and uses the
	// in-process rate limiter.
	RedisURL             string        `env:"REDIS_URL"`
	RedisPoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	RedisPoolTimeout     time.Duration `env:"REDIS_POOL_TIMEOUT" envDefault:"4s"`
	RedisConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	RedisDialTimeout     time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`

	// Auth
	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`

	// Google Places. An empty or placeholder key runs in demo mode.
	GoogleMapsAPIKey  string        `env:"GOOGLE_MAPS_API_KEY"`
	GoogleMapsBaseURL string        `env:"GOOGLE_MAPS_BASE_URL" envDefault:"https://maps.googleapis.com"`
	GoogleMapsRegion  string        `env:"GOOGLE_MAPS_REGION" envDefault:"ph"`
	GoogleMapsTimeout time.Duration `env:"GOOGLE_MAPS_TIMEOUT" envDefault:"10s"`

	// SMTP
	SMTPHost string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Metrics backend: "prometheus" or "memory"
	MetricsBackend string `env:"METRICS_BACKEND" envDefault:"prometheus"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting for the auth endpoints
	RateLimitAuthEnabled bool `env:"RATE_LIMIT_AUTH_ENABLED" envDefault:"true"`
	RateLimitAuthRPS     int  `env:"RATE_LIMIT_AUTH_RPS" envDefault:"5"`
	RateLimitAuthBurst   int  `env:"RATE_LIMIT_AUTH_BURST" envDefault:"10"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// CORS configuration. CORS_ALLOWED_ORIGINS is a comma-separated list;
	// CLIENT_URL is the single frontend origin used when it is unset.
	ClientURL          string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DemoMode reports whether place searches use the built-in catalog.
func (c *Config) DemoMode() bool {
	return c.GoogleMapsAPIKey == "" || c.GoogleMapsAPIKey == PlaceholderMapsKey
}

// RedisOptions returns the Redis connection settings.
func (c *Config) RedisOptions() cache.Options {
	return cache.Options{
		URL:             c.RedisURL,
		PoolSize:        c.RedisPoolSize,
		MinIdleConns:    c.RedisMinIdleConns,
		PoolTimeout:     c.RedisPoolTimeout,
		ConnMaxIdleTime: c.RedisConnMaxIdleTime,
		DialTimeout:     c.RedisDialTimeout,
	}
}

// SMTPConfigured reports whether outreach email can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPass != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice,
// falling back to ClientURL.
func (c *Config) GetCORSAllowedOrigins() []string {
	raw := c.CORSAllowedOrigins
	if strings.TrimSpace(raw) == "" {
		raw = c.ClientURL
	}
	if raw == "" {
		return nil
	}

	origins := strings.Split(raw, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	switch c.MetricsBackend {
	case "prometheus", "memory":
	default:
		return fmt.Errorf("METRICS_BACKEND must be prometheus or memory, got %q", c.MetricsBackend)
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return fmt.Errorf("APP_PORT out of range: %d", c.AppPort)
	}
	if c.RateLimitAuthEnabled && (c.RateLimitAuthRPS <= 0 || c.RateLimitAuthBurst <= 0) {
		return errors.New("RATE_LIMIT_AUTH_RPS and RATE_LIMIT_AUTH_BURST must be positive")
	}
	if c.RedisPoolSize < 0 || c.RedisMinIdleConns < 0 {
		return errors.New("REDIS_POOL_SIZE and REDIS_MIN_IDLE_CONNS must not be negative")
	}
	return nil
}

// Load reads an optional .env file, parses environment variables and
// returns a Config. Variables already set in the environment win over
// the file. Returns an error if required variables are missing.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
