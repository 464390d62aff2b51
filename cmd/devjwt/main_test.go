package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Overland-East-Bay/travel-planner-api/internal/platform/auth/jwks"
	"github.com/Overland-East-Bay/travel-planner-api/internal/platform/auth/jwtverifier"
	"github.com/Overland-East-Bay/travel-planner-api/internal/platform/config"
)

func TestIssuer_TokensVerifyAgainstServedKeys(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	cfg := issuerConfig{Issuer: "http://devjwt", Audience: "travel-planner", Kid: "k1", TTL: time.Minute}
	set, err := jwks.Marshal(jwks.FromRSA(cfg.Kid, &key.PublicKey))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	srv := httptest.NewServer((&issuer{cfg: cfg, key: key, jwks: set}).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/token?sub=user-1")
	if err != nil {
		t.Fatalf("GET /token: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	v := jwtverifier.New(config.JWTConfig{
		Issuer:      cfg.Issuer,
		Audience:    cfg.Audience,
		JWKSURL:     srv.URL + "/.well-known/jwks.json",
		ClockSkew:   10 * time.Second,
		HTTPTimeout: 2 * time.Second,
	})
	sub, err := v.Verify(context.Background(), out.Token)
	if err != nil {
		t.Fatalf("Verify() err=%v", err)
	}
	if sub != "user-1" {
		t.Fatalf("sub=%q", sub)
	}
}

func TestIssuer_TokenRequiresSubject(t *testing.T) {
	srv := httptest.NewServer((&issuer{}).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/token")
	if err != nil {
		t.Fatalf("GET /token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}
