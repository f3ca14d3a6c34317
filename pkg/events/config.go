package events

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	// Empty NATSURL disables publishing.
	NATSURL string `envconfig:"NATS_URL"`
	Subject string `envconfig:"NATS_SUBJECT" default:"nft.query.completed"`
}

func (c Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &c,
		validation.Field(&c.Subject, validation.Required),
	)
}
