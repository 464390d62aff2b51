// Command devjwt issues RS256 tokens and serves the matching key set for local development.
//
// It is not an OIDC provider. Point JWT_JWKS_URL at /.well-known/jwks.json and fetch tokens from
// /token?sub=<subject>.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"github.com/Overland-East-Bay/travel-planner-api/internal/platform/auth/jwks"
)

type issuerConfig struct {
	Port     string        `mapstructure:"PORT"`
	Issuer   string        `mapstructure:"ISSUER"`
	Audience string        `mapstructure:"AUDIENCE"`
	Kid      string        `mapstructure:"KID"`
	TTL      time.Duration `mapstructure:"TTL"`
}

func loadConfig() (issuerConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "5556")
	v.SetDefault("ISSUER", "http://devjwt:5556")
	v.SetDefault("AUDIENCE", "travel-planner")
	v.SetDefault("KID", "dev-kid-1")
	v.SetDefault("TTL", "30m")

	var cfg issuerConfig
	err := v.Unmarshal(&cfg)
	return cfg, err
}

type issuer struct {
	cfg  issuerConfig
	key  *rsa.PrivateKey
	jwks []byte
}

func (i *issuer) mint(sub string, now time.Time) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Issuer:    i.cfg.Issuer,
		Audience:  jwt.ClaimStrings{i.cfg.Audience},
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
	})
	tok.Header["kid"] = i.cfg.Kid
	return tok.SignedString(i.key)
}

func (i *issuer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(i.jwks)
	})
	r.Get("/token", func(w http.ResponseWriter, r *http.Request) {
		sub := strings.TrimSpace(r.URL.Query().Get("sub"))
		if sub == "" {
			http.Error(w, "missing sub", http.StatusBadRequest)
			return
		}
		now := time.Now().UTC()
		token, err := i.mint(sub, now)
		if err != nil {
			http.Error(w, "failed to mint token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": token,
			"sub":   sub,
			"iss":   i.cfg.Issuer,
			"aud":   i.cfg.Audience,
			"exp":   now.Add(i.cfg.TTL).Unix(),
		})
	})
	return r
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatalf("generate key: %v", err)
	}
	set, err := jwks.Marshal(jwks.FromRSA(cfg.Kid, &key.PublicKey))
	if err != nil {
		log.Fatalf("marshal jwks: %v", err)
	}
	iss := &issuer{cfg: cfg, key: key, jwks: set}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           iss.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("devjwt listening on :%s (iss=%s aud=%s kid=%s ttl=%s)", cfg.Port, cfg.Issuer, cfg.Audience, cfg.Kid, cfg.TTL)
	log.Fatal(srv.ListenAndServe())
}
