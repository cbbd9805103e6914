// @title        Delirium Scorecard API
// @version      1.0
// @description  Clinical-quality metrics dashboard backend with session-authenticated user management.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/uhndata/delirium-scorecard/internal/api"
	"github.com/uhndata/delirium-scorecard/internal/core/service"
	"github.com/uhndata/delirium-scorecard/internal/infrastructure/config"
	"github.com/uhndata/delirium-scorecard/internal/infrastructure/db/postgres"
	redisdb "github.com/uhndata/delirium-scorecard/internal/infrastructure/db/redis"
	"github.com/uhndata/delirium-scorecard/internal/infrastructure/objectstore"
	"github.com/uhndata/delirium-scorecard/internal/pkg/password"
	"github.com/uhndata/delirium-scorecard/internal/pkg/token"
	"github.com/uhndata/delirium-scorecard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// Refusing to start without a signing secret beats running with a
	// guessable one.
	tokens, err := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET must be set")
	}

	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	store, err := objectstore.New(ctx, objectstore.Config{
		Endpoint:  cfg.Store.Endpoint,
		Region:    cfg.Store.Region,
		AccessKey: cfg.Store.AccessKey,
		SecretKey: cfg.Store.SecretKey,
		Bucket:    cfg.Store.Bucket,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("object store setup failed")
	}

	repo := postgres.NewUserRepository(pool)
	hasher := password.NewHasher(cfg.BcryptCost)

	authService := service.NewAuthService(repo, hasher, tokens)
	userService := service.NewUserService(repo, hasher, service.BootstrapAdmin{
		Username: cfg.Bootstrap.AdminUsername,
		Email:    cfg.Bootstrap.AdminEmail,
		Password: cfg.Bootstrap.AdminPassword,
	})
	scorecardService := service.NewScorecardService(
		store,
		redisdb.NewDatasetCache(rdb, cfg.Redis.CacheTTL),
		log,
	)

	// Bootstrap runs before the listener: no authenticated traffic is
	// accepted until the administrator exists.
	admin, err := userService.EnsureAdmin(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}
	log.Info().Str("username", admin.Username).Msg("administrator account present")

	e := api.NewRouter(api.Deps{
		AuthService:      authService,
		UserService:      userService,
		ScorecardService: scorecardService,
		Pool:             pool,
		Redis:            rdb,
		CORSOrigin:       cfg.CORSOrigin,
		Logger:           log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("scorecard API listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
