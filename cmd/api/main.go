package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/gemini"
	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/httpapi"
	memidempotency "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/idempotency"
	memitemrepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/itemrepo"
	memplanrepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/planrepo"
	memrespcache "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/respcache"
	memsharerepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/sharerepo"
	memtxn "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/txn"
	memuserrepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/userrepo"
	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/nominatim"
	postgres "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres"
	pgidempotency "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres/idempotency"
	pgitemrepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres/itemrepo"
	pgplanrepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres/planrepo"
	pgsharerepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres/sharerepo"
	pguserrepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres/userrepo"
	redisrespcache "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/redis/respcache"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/itinerary"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/plans"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/recommendations"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/sharing"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/statistics"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/users"
	"github.com/Overland-East-Bay/travel-planner-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/Overland-East-Bay/travel-planner-api/internal/platform/clock"
	"github.com/Overland-East-Bay/travel-planner-api/internal/platform/config"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/generator"
	idempotencyport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/idempotency"
	itemrepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/itemrepo"
	planrepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/planrepo"
	respcacheport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/respcache"
	sharerepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/sharerepo"
	txnport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/txn"
	userrepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/userrepo"
)

const idempotencyRetention = 24 * time.Hour

// unconfiguredGenerator reports the AI provider as unavailable when no API key is set.
type unconfiguredGenerator struct{}

func (unconfiguredGenerator) Generate(context.Context, string) (string, error) {
	return "", generator.ErrUnavailable
}

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Auth configuration:
	// - Production: require JWT_* env vars and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-Subject
	var authMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case "dev":
		log.Printf("AUTH_MODE=dev: trusting X-Debug-Subject (default %q)", cfg.DevSubject)
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject)
	default:
		jwtCfg, err := cfg.JWT()
		if err != nil {
			log.Fatalf("invalid auth config: %v", err)
		}
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(jwtCfg))
	}

	clk := platformclock.NewSystemClock()

	var (
		planRepo  planrepoport.Repository
		itemRepo  itemrepoport.Repository
		shareRepo sharerepoport.Repository
		userRepo  userrepoport.Repository
		tx        txnport.Runner
		idemStore idempotencyport.Store
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		planRepo = pgplanrepo.NewRepo(pool)
		itemRepo = pgitemrepo.NewRepo(pool)
		shareRepo = pgsharerepo.NewRepo(pool)
		userRepo = pguserrepo.NewRepo(pool)
		tx = postgres.NewTxRunner(pool)
		idemStore = pgidempotency.NewStore(pool, idempotencyRetention)
	default:
		planRepo = memplanrepo.NewRepo()
		itemRepo = memitemrepo.NewRepo()
		shareRepo = memsharerepo.NewRepo()
		userRepo = memuserrepo.NewRepo()
		tx = memtxn.NewRunner()
		idemStore = memidempotency.NewStore(clk, idempotencyRetention)
	}

	var cache respcacheport.Cache
	switch cfg.CacheBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		rc := redisrespcache.New(rdb, clk, cfg.CacheTTL)
		if err := rc.Ping(ctx); err != nil {
			log.Fatalf("redis: %v", err)
		}
		cache = rc
	default:
		mc := memrespcache.New(clk, cfg.CacheTTL, memrespcache.WithMaxEntries(cfg.CacheMaxEntries))
		go mc.Run(ctx, cfg.CacheSweepInterval)
		cache = mc
	}

	var gen generator.Generator = unconfiguredGenerator{}
	if cfg.GeminiAPIKey != "" {
		g, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("gemini: %v", err)
		}
		defer g.Close()
		gen = g
	} else {
		log.Printf("GEMINI_API_KEY not set: recommendations will report UPSTREAM_UNAVAILABLE")
	}

	geo := nominatim.New(nominatim.Options{
		URL:       cfg.GeocoderURL,
		UserAgent: cfg.GeocoderUserAgent,
		Limit:     rate.NewLimiter(rate.Every(time.Second), 1),
	})

	sharingSvc := sharing.NewService(planRepo, shareRepo, userRepo, tx, clk)
	api := httpapi.NewServer(httpapi.Services{
		Users: users.NewService(userRepo, geo, clk),
		Plans: plans.NewService(planRepo, itemRepo, shareRepo, sharingSvc, tx, clk,
			plans.WithGeocoder(geo),
			plans.WithPublicBaseURL(cfg.PublicBaseURL),
		),
		Sharing:         sharingSvc,
		Itinerary:       itinerary.NewService(sharingSvc, itemRepo, tx, clk),
		Recommendations: recommendations.NewService(sharingSvc, gen, cache, cfg.UpstreamTimeout),
		Statistics:      statistics.NewService(planRepo, itemRepo, userRepo, clk),
	}, idemStore)

	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		AuthMiddleware: authMW,
		CORSOrigins:    cfg.CORSAllowedOrigins(),
		RequestLogging: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s (storage=%s cache=%s)", cfg.Port, cfg.StorageBackend, cfg.CacheBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
