// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Nnenty/telers/telerrors"
)

// Config carries everything the dispatcher and its storages need at start.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	APIURL   string `envconfig:"API_URL"   default:"https://api.telegram.org"`

	// PollingTimeout is the long-poll hold time in seconds.
	PollingTimeout int64 `envconfig:"POLLING_TIMEOUT" default:"30"`

	// WebhookListenAddr enables the webhook server when non-empty.
	WebhookListenAddr string `envconfig:"WEBHOOK_LISTEN_ADDR"`

	// RedisAddr selects the Redis state storage when non-empty; the
	// in-memory storage is used otherwise.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, telerrors.Error) {
	// Missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, telerrors.FromError(
			telerrors.KindInternal,
			err,
			"failed to load config from environment",
		)
	}

	return &cfg, nil
}
