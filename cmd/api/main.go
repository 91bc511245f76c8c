// @title           Service Bazaar API
// @version         1.0
// @description     Marketplace for booking home services: identities, catalog, bookings and visitor inbox.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/servicebazaar/bazaar-api/internal/api"
	"github.com/servicebazaar/bazaar-api/internal/api/handler"
	"github.com/servicebazaar/bazaar-api/internal/api/middleware"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
	"github.com/servicebazaar/bazaar-api/internal/core/service"
	"github.com/servicebazaar/bazaar-api/internal/infrastructure/db"
	redisstore "github.com/servicebazaar/bazaar-api/internal/infrastructure/db/redis"
	"github.com/servicebazaar/bazaar-api/internal/pkg/config"
	"github.com/servicebazaar/bazaar-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, envconfig.OsLookuper())
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.PrettyLogs(),
		Service: "bazaar-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	repos, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	readiness := map[string]handler.Pinger{
		repos.Name: db.PingFunc(repos.Ping),
	}

	// Redis is optional; without it rate limiting and idempotency keys are off.
	var (
		idem    ports.IdempotencyStore
		limiter middleware.Limiter
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		idem = redisstore.NewIdempotencyStore(rdb)
		if cfg.RateLimit.Enabled {
			limiter = redisstore.NewFixedWindowLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		}
		readiness["redis"] = redisstore.Pinger{Client: rdb}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, rate limiting and idempotency keys disabled")
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	log.Info().Dur("token_ttl", tokens.TTL()).Msg("token service ready")

	e := api.NewRouter(api.Dependencies{
		Auth:      service.NewAuthService(repos.Users, tokens, log),
		Tokens:    tokens,
		Catalog:   service.NewCatalogService(repos.Services, log),
		Bookings:  service.NewBookingService(repos.Bookings, repos.Services, idem, cfg.IdempotencyTTL, log),
		Inbox:     service.NewInboxService(repos.Inbox, log),
		Limiter:   limiter,
		Readiness: readiness,
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", repos.Name).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
