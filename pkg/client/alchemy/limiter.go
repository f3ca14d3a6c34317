package alchemy

import (
	"context"
	"time"
)

// Limiter paces outgoing requests.
type Limiter interface {
	Wait(ctx context.Context) error
}

type nopLimiter struct{}

func (nopLimiter) Wait(ctx context.Context) error { return ctx.Err() }

// tickLimiter releases one request per tick.
type tickLimiter struct {
	ch <-chan time.Time
}

func (l tickLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ch:
		return nil
	}
}

// NewLimiter returns a Limiter allowing rate requests per second.
// A rate <= 0 disables limiting.
func NewLimiter(rate int) Limiter {
	if rate <= 0 {
		return nopLimiter{}
	}
	period := time.Second / time.Duration(rate)
	if period <= 0 {
		period = time.Nanosecond
	}
	// The client lives as long as the process, so the ticker is never stopped.
	return tickLimiter{ch: time.NewTicker(period).C}
}
