package alchemy

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type Config struct {
	APIKey            string `envconfig:"ALCHEMY_API_KEY"`
	BaseURL           string `envconfig:"ALCHEMY_BASE_URL" default:"https://eth-mainnet.g.alchemy.com/nft/v3"`
	RequestsPerSecond int    `envconfig:"ALCHEMY_REQUESTS_PER_SECOND" default:"0"`
}

func (c Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &c,
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.RequestsPerSecond, validation.Min(0)),
	)
}
