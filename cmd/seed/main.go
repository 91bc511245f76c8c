// Command seed loads the starter catalog and demo accounts into the
// configured store.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sethvargo/go-envconfig"

	"github.com/servicebazaar/bazaar-api/internal/core/service"
	"github.com/servicebazaar/bazaar-api/internal/infrastructure/db"
	"github.com/servicebazaar/bazaar-api/internal/pkg/config"
	"github.com/servicebazaar/bazaar-api/internal/seed"
	"github.com/servicebazaar/bazaar-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(ctx, envconfig.OsLookuper())
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "bazaar-seed",
		Env:     cfg.Env,
	})

	repos, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer repos.Close(context.Background())

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	auth := service.NewAuthService(repos.Users, tokens, log)

	res, err := seed.New(repos.Services, auth, log).Run(ctx)
	if err != nil {
		_ = repos.Close(context.Background())
		log.Fatal().Err(err).Msg("seed failed")
	}

	log.Info().
		Int("services_added", res.ServicesAdded).
		Int("users_added", res.UsersAdded).
		Msg("seed complete")
}
