package handler

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const DefaultPlaceholderImage = "https://via.placeholder.com/200"

type Config struct {
	Port              string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	Timeout           time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_ROUTER" default:"60s"`
	WriteTimeout      time.Duration `envconfig:"HTTP_SERVER_WRITE_TIMEOUT" default:"65s"`
	IdleTimeout       time.Duration `envconfig:"HTTP_SERVER_IDLE_TIMEOUT" default:"120s"`
	MaxAge            int64         `envconfig:"HTTP_SERVER_MAX_AGE" default:"300"`
	AllowCredentials  bool          `envconfig:"HTTP_SERVER_ALLOW_CREDENTIALS" default:"false"`
	HTTPClientTimeout time.Duration `envconfig:"HTTP_SERVER_CLIENT_TIMEOUT" default:"15s"`
	APIVersion        string        `envconfig:"HTTP_SERVER_API_VERSION" default:"v1"`
	PlaceholderImage  string        `envconfig:"HTTP_PLACEHOLDER_IMAGE" default:"https://via.placeholder.com/200"`
}

func (c Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.WriteTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.IdleTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxAge, validation.Min(int64(0))),
		validation.Field(&c.HTTPClientTimeout, validation.Required),
		validation.Field(&c.APIVersion, validation.Required),
		validation.Field(&c.PlaceholderImage, is.URL),
	)
}
