package worker

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config contains configuration for the QueryWorker pool.
type Config struct {
	MaxConcurrency         int           `envconfig:"WORKER_MAX_CONCURRENCY" default:"4"`
	QueueSize              int           `envconfig:"WORKER_QUEUE_SIZE" default:"64"`
	RequestTimeout         time.Duration `envconfig:"WORKER_REQUEST_TIMEOUT" default:"30s"`
	CircuitBreakerMax      int           `envconfig:"WORKER_CIRCUIT_BREAKER_MAX" default:"5"`
	CircuitBreakerCooldown time.Duration `envconfig:"WORKER_CIRCUIT_BREAKER_COOLDOWN" default:"1m"`
	ResultTTL              time.Duration `envconfig:"WORKER_RESULT_TTL" default:"1h"`
}

func (c Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &c,
		validation.Field(&c.MaxConcurrency, validation.Min(0)),
		validation.Field(&c.QueueSize, validation.Min(0)),
		validation.Field(&c.RequestTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.CircuitBreakerMax, validation.Min(0)),
		validation.Field(&c.CircuitBreakerCooldown, validation.Min(time.Duration(0))),
		validation.Field(&c.ResultTTL, validation.Min(time.Duration(0))),
	)
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = c.MaxConcurrency * 2
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.CircuitBreakerMax <= 0 {
		c.CircuitBreakerMax = 5
	}
	if c.CircuitBreakerCooldown == 0 {
		c.CircuitBreakerCooldown = time.Minute
	}
	return c
}
