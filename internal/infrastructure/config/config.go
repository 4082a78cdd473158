package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=7070"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Platform PlatformConfig
	Store    StoreConfig
	Redis    RedisConfig
	Mongo    MongoConfig
}

// PlatformConfig points at the remote tournament platform API.
type PlatformConfig struct {
	BaseURL string        `env:"PLATFORM_API_URL, default=https://api.arenaplay.app/v1"`
	Timeout time.Duration `env:"PLATFORM_TIMEOUT, default=15s"`
}

// StoreConfig selects the session persistence backend.
type StoreConfig struct {
	Backend string `env:"SESSION_STORE, default=redis"` // redis | mongo
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=wallet_core"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
