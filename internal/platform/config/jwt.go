package config

import (
	"fmt"
	"time"
)

// JWTConfig configures JWT verification against a JWKS endpoint.
type JWTConfig struct {
	Issuer   string
	Audience string
	JWKSURL  string

	ClockSkew              time.Duration
	JWKSRefreshInterval    time.Duration
	JWKSMinRefreshInterval time.Duration

	HTTPTimeout time.Duration
}

// JWT extracts and validates the JWT settings. It is only required when AUTH_MODE=jwt.
func (c Config) JWT() (JWTConfig, error) {
	if c.JWTIssuer == "" || c.JWTAudience == "" || c.JWTJWKSURL == "" {
		return JWTConfig{}, fmt.Errorf("missing required env vars: JWT_ISSUER, JWT_AUDIENCE, JWT_JWKS_URL")
	}
	if c.JWTClockSkew < 0 {
		return JWTConfig{}, fmt.Errorf("JWT_CLOCK_SKEW must be a non-negative duration (e.g. 30s)")
	}
	if c.JWTJWKSRefresh <= 0 {
		return JWTConfig{}, fmt.Errorf("JWT_JWKS_REFRESH_INTERVAL must be a duration (e.g. 5m)")
	}
	if c.JWTJWKSMinRefresh <= 0 {
		return JWTConfig{}, fmt.Errorf("JWT_JWKS_MIN_REFRESH_INTERVAL must be a duration (e.g. 10s)")
	}
	return JWTConfig{
		Issuer:                 c.JWTIssuer,
		Audience:               c.JWTAudience,
		JWKSURL:                c.JWTJWKSURL,
		ClockSkew:              c.JWTClockSkew,
		JWKSRefreshInterval:    c.JWTJWKSRefresh,
		JWKSMinRefreshInterval: c.JWTJWKSMinRefresh,
		HTTPTimeout:            c.JWTJWKSHTTPTimeout,
	}, nil
}
