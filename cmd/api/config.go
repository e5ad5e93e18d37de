package main

import (
	"log/slog"
	"time"

	"github.com/coinhunter/gameserver/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"3000"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Postgres config.PostgresConfig

	// SignerKey is the hex secp256k1 key that authorizes on-chain claims.
	SignerKey string `env:"SIGNER_PRIVATE_KEY"`

	// VaultAddress is the claim contract the signatures are bound to.
	VaultAddress string `env:"CONTRACT_ADDRESS"`

	// SellRate is how many coins buy one on-chain token.
	SellRate int64 `env:"SELL_RATE_COIN_PER_WLD" envDefault:"1100"`

	FeedSweepInterval time.Duration `env:"FEED_SWEEP_INTERVAL" envDefault:"24h"`
}
