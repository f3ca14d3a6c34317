package service

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vladislavprovich/nft-indexer/pkg/client/alchemy"
)

const maxRetryBackoff = 2 * time.Second

// retryable marks errors that another attempt cannot fix as permanent.
func retryable(err error) error {
	if alchemy.IsRetryable(err) {
		return err
	}
	return backoff.Permanent(err)
}

func (s *Service) retryPolicy(ctx context.Context, retries uint64) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if s.cfg.RetryBackoff > 0 {
		b.InitialInterval = s.cfg.RetryBackoff
	}
	b.MaxInterval = maxRetryBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}
