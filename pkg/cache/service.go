package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Service defines the interface for cache operations
type Service interface {
	// Set stores a value with the given key and TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key, ErrMiss if there is none
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a value by key
	Delete(ctx context.Context, key string) error

	// GetStats returns cache statistics
	GetStats(ctx context.Context) (*Stats, error)
}

// Stats represents cache statistics
type Stats struct {
	Hits   int64     `json:"hits"`
	Misses int64     `json:"misses"`
	Keys   int64     `json:"keys"`
	Uptime time.Time `json:"uptime"`
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (Nop) Delete(context.Context, string) error { return nil }

func (Nop) GetStats(context.Context) (*Stats, error) { return &Stats{}, nil }
