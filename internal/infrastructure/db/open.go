// Package db selects and opens the configured storage driver.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/servicebazaar/bazaar-api/internal/core/ports"
	"github.com/servicebazaar/bazaar-api/internal/infrastructure/db/filestore"
	mongostore "github.com/servicebazaar/bazaar-api/internal/infrastructure/db/mongo"
	"github.com/servicebazaar/bazaar-api/internal/pkg/config"
)

// Repositories is the set of repositories backed by one driver.
type Repositories struct {
	Users    ports.UserRepository
	Services ports.ServiceRepository
	Bookings ports.BookingRepository
	Inbox    ports.InboxRepository

	// Name identifies the driver in readiness output.
	Name string
	Ping func(ctx context.Context) error
	// Close releases driver resources. Safe to call on the file driver.
	Close func(ctx context.Context) error
}

// Open connects the driver named by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Repositories, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, database, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		store := mongostore.NewStore(database)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb store ready")
		return &Repositories{
			Users:    store.Users(),
			Services: store.Services(),
			Bookings: store.Bookings(),
			Inbox:    store.Inbox(),
			Name:     "mongodb",
			Ping:     store.Ping,
			Close:    client.Disconnect,
		}, nil

	case config.DriverFile:
		store, err := filestore.Open(cfg.Store.DataDir)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dir", cfg.Store.DataDir).Msg("file store ready")
		return &Repositories{
			Users:    store.Users(),
			Services: store.Services(),
			Bookings: store.Bookings(),
			Inbox:    store.Inbox(),
			Name:     "filestore",
			Ping:     store.Ping,
			Close:    func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// PingFunc adapts a ping function to handler.Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }
