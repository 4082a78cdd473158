// Package store selects and wires the key-value backend for the persisted
// session mirror.
package store

import (
	"context"
	"fmt"

	"github.com/arenaplay/wallet-core/internal/core/ports"
	"github.com/arenaplay/wallet-core/internal/infrastructure/config"
	mongostore "github.com/arenaplay/wallet-core/internal/infrastructure/store/mongo"
	redisstore "github.com/arenaplay/wallet-core/internal/infrastructure/store/redis"
)

// New connects the backend named by cfg.Store.Backend and returns it behind
// the KeyValueStore port.
func New(ctx context.Context, cfg *config.Config) (ports.KeyValueStore, error) {
	switch cfg.Store.Backend {
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil
	case "mongo":
		_, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		return mongostore.NewStore(db), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Store.Backend)
	}
}
