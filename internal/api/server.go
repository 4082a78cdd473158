package api

import (
	"context"
	"fmt"

	"github.com/arenaplay/wallet-core/internal/infrastructure/config"
	"github.com/arenaplay/wallet-core/internal/infrastructure/store"
	"github.com/arenaplay/wallet-core/pkg/logger"
)

// Start loads configuration from the environment, connects the session
// store, and serves the local facade until the listener fails. The wallet
// cache is torn down on the way out so no refresh can publish after exit.
func Start(ctx context.Context) error {
	cfg := config.Load()
	logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log := logger.Component("api")

	kv, err := store.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect session store: %w", err)
	}

	e, wallet := NewRouter(cfg, kv, log)
	defer wallet.Close()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting wallet core")
	return e.Start(":" + cfg.Port)
}
