package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"guardpost/internal/access"
	"guardpost/internal/identity/directory"
	"guardpost/internal/login"
	"guardpost/internal/notify"
	"guardpost/internal/platform/config"
	"guardpost/internal/platform/database"
	"guardpost/internal/platform/health"
	"guardpost/internal/platform/httpserver"
	"guardpost/internal/platform/logger"
	"guardpost/internal/platform/metrics"
	"guardpost/internal/platform/redis"
	reviewhandler "guardpost/internal/review/handler"
	"guardpost/internal/review/service"
	"guardpost/internal/review/store"
	httptransport "guardpost/internal/transport/http"
	"guardpost/migrations"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log.Info("initializing guardpost",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	m := metrics.New()
	healthHandler := health.New(cfg.Environment)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	var evaluations store.EvaluationStore
	if pool != nil {
		if err := database.Migrate(context.Background(), pool.DB(), migrations.FS); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		evaluations = store.NewPostgres(pool.DB())
		healthHandler.RegisterCheck("database", func() error { return pool.Health(context.Background()) })
		defer pool.Close() //nolint:errcheck // best-effort cleanup on shutdown
	} else {
		log.Warn("no database configured, evaluations will not be persisted")
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	directoryOpts := []directory.Option{directory.WithMetrics(m)}
	if redisClient != nil {
		directoryOpts = append(directoryOpts,
			directory.WithCache(directory.NewRedisCache(redisClient.Client, cfg.DirectoryCacheTTL)))
		healthHandler.RegisterCheck("redis", func() error { return redisClient.Health(context.Background()) })
		defer redisClient.Close() //nolint:errcheck // best-effort cleanup on shutdown
	}
	enricher := directory.New(cfg.DiscordAPIBaseURL, cfg.DirectoryBotToken, cfg.DirectoryTimeout, log, directoryOpts...)

	notifier := notify.New(cfg.WebhookURL, cfg.WebhookTimeout, log, notify.WithMetrics(m))

	reviews := service.New(evaluations, enricher, notifier, log, service.WithMetrics(m))

	guard := access.New(cfg.AdminIDs)
	reviewHandler := reviewhandler.New(reviews, guard, log)

	oauth := login.NewOAuthClient(login.OAuthConfig{
		BaseURL:      cfg.DiscordAPIBaseURL,
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		RedirectURI:  cfg.OAuthRedirectURI,
		Timeout:      cfg.OAuthTimeout,
	})
	loginHandler := login.NewHandler(oauth,
		login.NewStateSigner(cfg.StateSigningKey), log, cfg.Environment == "production")

	router := httptransport.NewRouter(reviewHandler, loginHandler, healthHandler, m, log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
