package service

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	defaultMaxTokens           = 10
	defaultMetadataConcurrency = 5
)

type Config struct {
	MaxTokens           int           `envconfig:"NFT_MAX_TOKENS" default:"10"`
	MetadataConcurrency int           `envconfig:"NFT_METADATA_CONCURRENCY" default:"5"`
	MetadataTimeout     time.Duration `envconfig:"NFT_METADATA_TIMEOUT" default:"10s"`
	MetadataRetries     uint64        `envconfig:"NFT_METADATA_RETRIES" default:"2"`
	MetadataCacheTTL    time.Duration `envconfig:"NFT_METADATA_CACHE_TTL" default:"10m"`
	LookupRetries       uint64        `envconfig:"NFT_LOOKUP_RETRIES" default:"2"`
	RetryBackoff        time.Duration `envconfig:"NFT_RETRY_BACKOFF" default:"200ms"`
}

func (c Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &c,
		validation.Field(&c.MaxTokens, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.MetadataConcurrency, validation.Required, validation.Min(1)),
		validation.Field(&c.MetadataTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MetadataCacheTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.RetryBackoff, validation.Min(time.Duration(0))),
	)
}

// withDefaults fills the zero values a hand-built Config may carry.
func (c Config) withDefaults() Config {
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.MetadataConcurrency == 0 {
		c.MetadataConcurrency = defaultMetadataConcurrency
	}
	return c
}
