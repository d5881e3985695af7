package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumenpaints/erp-backend/internal/api"
	"github.com/lumenpaints/erp-backend/internal/core/cache"
	"github.com/lumenpaints/erp-backend/internal/core/domain"
	"github.com/lumenpaints/erp-backend/internal/core/ports"
	"github.com/lumenpaints/erp-backend/internal/core/service"
	"github.com/lumenpaints/erp-backend/internal/infrastructure/config"
	mongodb "github.com/lumenpaints/erp-backend/internal/infrastructure/db/mongo"
	"github.com/lumenpaints/erp-backend/internal/infrastructure/db/postgres"
	redisdb "github.com/lumenpaints/erp-backend/internal/infrastructure/db/redis"
	"github.com/lumenpaints/erp-backend/internal/metrics"
	"github.com/lumenpaints/erp-backend/pkg/logger"
)

// @title           Lumen Paints ERP API
// @description     Backend for the Lumen Paints manufacturing ERP: sessions, catalog, customers, sales.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Identity provider (document store) ---
	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	identityRepo := mongodb.NewIdentityRepository(mongoDB)
	if err := identityRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}
	roleRepo := mongodb.NewRoleRepository(mongoDB)

	// --- Relational store ---
	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	// --- Settings store ---
	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = redisClient.Close() }()

	settingsStore := redisdb.NewSettingsStore(redisClient)
	settings, err := settingsStore.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("settings load failed, using defaults")
		settings = domain.DefaultSettings()
	}

	// --- Session manager ---
	verifiers := []ports.CredentialVerifier{}
	if demo := service.ParseDemoUsers(cfg.DemoUsers); len(demo) > 0 {
		verifiers = append(verifiers, service.NewStaticVerifier(demo))
		log.Info().Int("entries", len(demo)).Msg("demo credential table enabled")
	}
	verifiers = append(verifiers, service.NewProviderVerifier(identityRepo, roleRepo, log))

	sessions := service.NewSessionManager(verifiers, identityRepo, roleRepo, cfg.JWTSecret, 24*time.Hour, log)
	sessions.SetIdleTimeout(settings.InactivityMinutes)
	sessions.OnExpire(func(domain.Session) {
		metrics.SessionsExpiredTotal.Inc()
	})
	go sessions.Run(ctx)

	// --- Reconciling cache ---
	store := cache.NewStore(
		postgres.NewProductRepository(pool),
		postgres.NewCustomerRepository(pool),
		postgres.NewSaleRepository(pool),
		postgres.NewChangeListener(pool, log),
		log,
	)
	if err := store.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("cache start failed")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Sessions:  sessions,
		Store:     store,
		Settings:  settingsStore,
		Mongo:     mongoDB,
		Postgres:  pool,
		Redis:     redisClient,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
