package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process configuration, read from the environment (and a .env file when present).
type Config struct {
	Port string `mapstructure:"PORT"`

	// AuthMode is "jwt" (default) or "dev". Dev mode trusts X-Debug-Subject and must not be used in production.
	AuthMode   string `mapstructure:"AUTH_MODE"`
	DevSubject string `mapstructure:"DEV_SUBJECT"`
	DevEmail   string `mapstructure:"DEV_EMAIL"`

	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`

	CacheBackend       string        `mapstructure:"CACHE_BACKEND"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL"`
	CacheSweepInterval time.Duration `mapstructure:"CACHE_SWEEP_INTERVAL"`
	CacheMaxEntries    int           `mapstructure:"CACHE_MAX_ENTRIES"`

	GeminiAPIKey    string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel     string        `mapstructure:"GEMINI_MODEL"`
	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`

	GeocoderURL       string `mapstructure:"GEOCODER_URL"`
	GeocoderUserAgent string `mapstructure:"GEOCODER_USER_AGENT"`

	CORSOrigins   string `mapstructure:"CORS_ORIGINS"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	JWTIssuer              string        `mapstructure:"JWT_ISSUER"`
	JWTAudience            string        `mapstructure:"JWT_AUDIENCE"`
	JWTJWKSURL             string        `mapstructure:"JWT_JWKS_URL"`
	JWTClockSkew           time.Duration `mapstructure:"JWT_CLOCK_SKEW"`
	JWTJWKSRefresh         time.Duration `mapstructure:"JWT_JWKS_REFRESH_INTERVAL"`
	JWTJWKSMinRefresh      time.Duration `mapstructure:"JWT_JWKS_MIN_REFRESH_INTERVAL"`
	JWTJWKSHTTPTimeout     time.Duration `mapstructure:"JWT_JWKS_HTTP_TIMEOUT"`
}

var defaults = map[string]any{
	"PORT":                          "8080",
	"AUTH_MODE":                     "jwt",
	"DEV_SUBJECT":                   "dev|local",
	"DEV_EMAIL":                     "dev@example.com",
	"STORAGE_BACKEND":               "memory",
	"DATABASE_URL":                  "",
	"CACHE_BACKEND":                 "memory",
	"REDIS_ADDR":                    "",
	"REDIS_PASSWORD":                "",
	"CACHE_TTL":                     "1h",
	"CACHE_SWEEP_INTERVAL":          "10m",
	"CACHE_MAX_ENTRIES":             10000,
	"GEMINI_API_KEY":                "",
	"GEMINI_MODEL":                  "gemini-1.5-flash",
	"UPSTREAM_TIMEOUT":              "20s",
	"GEOCODER_URL":                  "https://nominatim.openstreetmap.org/search",
	"GEOCODER_USER_AGENT":           "TravelPlannerAPI/1.0",
	"CORS_ORIGINS":                  "",
	"PUBLIC_BASE_URL":               "http://localhost:8080",
	"JWT_ISSUER":                    "",
	"JWT_AUDIENCE":                  "",
	"JWT_JWKS_URL":                  "",
	"JWT_CLOCK_SKEW":                "30s",
	"JWT_JWKS_REFRESH_INTERVAL":     "5m",
	"JWT_JWKS_MIN_REFRESH_INTERVAL": "10s",
	"JWT_JWKS_HTTP_TIMEOUT":         "5s",
}

// Load reads configuration from the environment, applying defaults.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(cfg.AuthMode))
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))

	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be a positive duration (e.g. 1h)")
	}
	if cfg.UpstreamTimeout <= 0 {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT must be a positive duration (e.g. 20s)")
	}
	switch cfg.StorageBackend {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be memory or postgres, got %q", cfg.StorageBackend)
	}
	switch cfg.CacheBackend {
	case "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	default:
		return Config{}, fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", cfg.CacheBackend)
	}
	return cfg, nil
}

// CORSAllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) CORSAllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
