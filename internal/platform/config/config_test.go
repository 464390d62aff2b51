package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port=%q, want 8080", cfg.Port)
	}
	if cfg.StorageBackend != "memory" || cfg.CacheBackend != "memory" {
		t.Fatalf("backends=%q/%q", cfg.StorageBackend, cfg.CacheBackend)
	}
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("CacheTTL=%v, want 1h", cfg.CacheTTL)
	}
	if cfg.UpstreamTimeout != 20*time.Second {
		t.Fatalf("UpstreamTimeout=%v, want 20s", cfg.UpstreamTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port=%q", cfg.Port)
	}
	if cfg.CacheBackend != "redis" || cfg.RedisAddr != "redis:6379" {
		t.Fatalf("cache=%q addr=%q", cfg.CacheBackend, cfg.RedisAddr)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Fatalf("CacheTTL=%v", cfg.CacheTTL)
	}
	origins := cfg.CORSAllowedOrigins()
	if len(origins) != 2 || origins[1] != "https://b.example" {
		t.Fatalf("origins=%v", origins)
	}
}

func TestLoad_RejectsIncompleteBackends(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}

func TestJWT_RequiresIssuerAudienceAndJWKS(t *testing.T) {
	t.Setenv("JWT_ISSUER", "https://issuer.test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if _, err := cfg.JWT(); err == nil {
		t.Fatalf("expected JWT() error with partial settings")
	}

	t.Setenv("JWT_AUDIENCE", "travel-api")
	t.Setenv("JWT_JWKS_URL", "https://issuer.test/.well-known/jwks.json")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	jc, err := cfg.JWT()
	if err != nil {
		t.Fatalf("JWT() err=%v", err)
	}
	if jc.ClockSkew != 30*time.Second || jc.JWKSRefreshInterval != 5*time.Minute {
		t.Fatalf("jwt defaults=%+v", jc)
	}
}
