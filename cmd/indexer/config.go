package main

import (
	"context"
	"fmt"
	"log"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/vladislavprovich/nft-indexer/internal/handler"
	"github.com/vladislavprovich/nft-indexer/internal/service"
	"github.com/vladislavprovich/nft-indexer/internal/worker"
	"github.com/vladislavprovich/nft-indexer/pkg/cache"
	"github.com/vladislavprovich/nft-indexer/pkg/client/alchemy"
	"github.com/vladislavprovich/nft-indexer/pkg/events"
	"github.com/vladislavprovich/nft-indexer/pkg/logger"
)

type Config struct {
	Client  alchemy.Config
	Server  handler.Config
	Logger  *logger.Config
	Service service.Config
	Cache   cache.Config
	Events  events.Config
	Worker  worker.Config

	// WalletAddress is the account `query --wallet` acts for.
	WalletAddress string `envconfig:"WALLET_ADDRESS"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	var cfg Config

	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: .env file not found or failed to load: %v\n", err)
	}

	if err = envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load root config: %w", err)
	}

	if err = cfg.ValidateWithContext(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.Server),
		validation.Field(&c.Client),
		validation.Field(&c.Logger, validation.Required),
		validation.Field(&c.Service),
		validation.Field(&c.Cache),
		validation.Field(&c.Events),
		validation.Field(&c.Worker),
	)
}
