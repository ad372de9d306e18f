// Command authsvc runs the OAuth2 authentication service.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cotato/auth-service/internal/auth"
	"github.com/cotato/auth-service/internal/cache"
	"github.com/cotato/auth-service/internal/config"
	"github.com/cotato/auth-service/internal/domain/repository"
	authctrl "github.com/cotato/auth-service/internal/http/controllers/auth"
	healthctrl "github.com/cotato/auth-service/internal/http/controllers/health"
	mw "github.com/cotato/auth-service/internal/http/middlewares"
	"github.com/cotato/auth-service/internal/http/router"
	"github.com/cotato/auth-service/internal/oauth"
	"github.com/cotato/auth-service/internal/oauth/google"
	"github.com/cotato/auth-service/internal/oauth/kakao"
	"github.com/cotato/auth-service/internal/oauth/naver"
	"github.com/cotato/auth-service/internal/observability/logger"
	"github.com/cotato/auth-service/internal/rate"
	"github.com/cotato/auth-service/internal/revocation"
	storememory "github.com/cotato/auth-service/internal/store/memory"
	"github.com/cotato/auth-service/internal/store/pg"
	"github.com/cotato/auth-service/internal/token"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "authsvc",
	})
	log := logger.Named("main")
	defer logger.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("service exited", logger.Err(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheClient, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return err
	}
	defer cacheClient.Close()

	users, dbCheck, closeStore, err := buildUserStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	engine, err := token.NewEngine([]byte(cfg.JWT.Secret), cfg.AccessTTL(), cfg.RefreshTTL())
	if err != nil {
		return err
	}

	registry := oauth.NewRegistry()
	if p := cfg.Providers.Google; p.Enabled() {
		registry.Register(google.New(p.ClientID, p.ClientSecret))
	}
	if p := cfg.Providers.Naver; p.Enabled() {
		registry.Register(naver.New(p.ClientID, p.ClientSecret))
	}
	if p := cfg.Providers.Kakao; p.Enabled() {
		registry.Register(kakao.New(p.ClientID, p.ClientSecret))
	}
	log.Info("providers registered", zap.Strings("providers", registry.Available()))

	svc := auth.NewService(auth.Deps{
		Providers:   registry,
		Users:       users,
		Tokens:      engine,
		Revocations: revocation.NewRegistry(cacheClient),
	})

	metricsHandler, err := mw.RegisterMetrics(nil)
	if err != nil {
		return err
	}

	checks := map[string]healthctrl.CheckFunc{
		"cache": cacheClient.Ping,
	}
	if dbCheck != nil {
		checks["database"] = dbCheck
	}

	loginLimiter, refreshLimiter := buildLimiters(cfg)

	handler := router.New(router.Deps{
		Service:            svc,
		AuthControllers:    authctrl.NewControllers(svc, cfg.AccessTTL()),
		HealthController:   healthctrl.NewController(checks),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		LoginLimiter:       loginLimiter,
		RefreshLimiter:     refreshLimiter,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", logger.Path(cfg.Server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildLimiters constructs the per-endpoint limiters. With redis the
// windows are shared fleet-wide; the memory fallback is per instance.
func buildLimiters(cfg *config.Config) (login, refresh rate.Limiter) {
	if !cfg.Rate.Enabled {
		return nil, nil
	}
	if cfg.Cache.Kind == "redis" {
		client := rdb.NewClient(&rdb.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		login = rate.NewRedisLimiter(client, "rl:login:", cfg.Rate.Login.Limit, cfg.Rate.Login.ParsedWindow())
		refresh = rate.NewRedisLimiter(client, "rl:refresh:", cfg.Rate.Refresh.Limit, cfg.Rate.Refresh.ParsedWindow())
		return login, refresh
	}
	login = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.Rate.Login.ParsedWindow())
	refresh = rate.NewMemoryLimiter(cfg.Rate.Refresh.Limit, cfg.Rate.Refresh.ParsedWindow())
	return login, refresh
}

// buildUserStore returns the configured repository, an optional health
// probe, and a cleanup func.
func buildUserStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.UserRepository, healthctrl.CheckFunc, func(), error) {
	if cfg.Storage.Driver != "postgres" {
		log.Warn("using in-memory user store, data will not survive restarts")
		return storememory.NewUserStore(), nil, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Flags.Migrate {
		if err := pg.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		log.Info("migrations applied")
	}
	return pg.NewUserStore(pool), pool.Ping, pool.Close, nil
}
