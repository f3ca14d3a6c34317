// Package enrich fetches per-item data for a bounded prefix of a record list.
//
// Enrich runs at most Options.ConcurrencyLimit fetches at once, stores every
// outcome at the index of its input record and keeps going when single items
// fail. Only invalid arguments make the call itself fail.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidArgument is returned by Enrich for a non-positive cap, a
	// negative concurrency limit or a nil fetch function.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFetchFailed wraps every error returned by a fetch function.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrSkipped marks items that were never fetched because the context was
	// cancelled before a slot became free.
	ErrSkipped = errors.New("fetch skipped")
)

const (
	defaultInitialBackoff = 200 * time.Millisecond
	defaultMaxBackoff     = 2 * time.Second
)

// FetchFunc loads the data for one record. Wrap an error with
// backoff.Permanent to stop retries for that item.
type FetchFunc[T, M any] func(ctx context.Context, record T) (M, error)

// Options control a single Enrich call.
type Options struct {
	// Cap is the maximum number of records enriched. Must be positive.
	Cap int
	// ConcurrencyLimit is the maximum number of fetches in flight.
	//
	// Zero means no limit beyond Cap.
	ConcurrencyLimit int
	// Timeout bounds every fetch attempt. Zero disables it.
	Timeout time.Duration
	// Retries is the number of extra attempts per item after a failure.
	Retries uint64
	// InitialBackoff and MaxBackoff shape the exponential delay between retries.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// OnSettle, if set, is called once per fetched item from the goroutine
	// that fetched it.
	OnSettle func(index int, err error, elapsed time.Duration)
}

// Result is the outcome for the record at Index. Exactly one of Metadata and
// Err is meaningful: Metadata holds the zero value when Err is set.
type Result[T, M any] struct {
	Index    int
	Record   T
	Metadata M
	Err      error
}

// OK reports whether the fetch succeeded.
func (r Result[T, M]) OK() bool {
	return r.Err == nil
}

func (o Options) validate() error {
	if o.Cap <= 0 {
		return fmt.Errorf("%w: cap must be positive, got %d", ErrInvalidArgument, o.Cap)
	}
	if o.ConcurrencyLimit < 0 {
		return fmt.Errorf("%w: concurrency limit must not be negative, got %d", ErrInvalidArgument, o.ConcurrencyLimit)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative, got %s", ErrInvalidArgument, o.Timeout)
	}
	return nil
}

// Enrich calls fetch for each of the first min(len(records), opts.Cap)
// records and returns one Result per selected record, in input order.
func Enrich[T, M any](
	ctx context.Context,
	records []T,
	fetch FetchFunc[T, M],
	opts Options,
) ([]Result[T, M], error) {
	if fetch == nil {
		return nil, fmt.Errorf("%w: nil fetch function", ErrInvalidArgument)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	n := min(len(records), opts.Cap)
	results := make([]Result[T, M], n)
	if n == 0 {
		return results, nil
	}

	limit := opts.ConcurrencyLimit
	if limit == 0 || limit > n {
		limit = n
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i := range n {
		results[i].Index = i
		results[i].Record = records[i]

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = fmt.Errorf("%w: %w", ErrSkipped, err)
				return nil
			}

			start := time.Now()
			m, err := call(ctx, records[i], fetch, opts)
			if err != nil {
				results[i].Err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
			} else {
				results[i].Metadata = m
			}

			if opts.OnSettle != nil {
				opts.OnSettle(i, results[i].Err, time.Since(start))
			}
			// Never cancel siblings.
			return nil
		})
	}

	_ = g.Wait()

	return results, nil
}

// call runs fetch with the per-attempt timeout and the retry budget.
func call[T, M any](ctx context.Context, record T, fetch FetchFunc[T, M], opts Options) (M, error) {
	var out M

	attempt := func() (err error) {
		callCtx := ctx
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}

		defer func() {
			if r := recover(); r != nil {
				err = backoff.Permanent(fmt.Errorf("fetch panicked: %v", r))
			}
		}()

		m, err := fetch(callCtx, record)
		if err != nil {
			return err
		}
		out = m
		return nil
	}

	if opts.Retries == 0 {
		err := attempt()
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		return out, err
	}

	return out, backoff.Retry(attempt, newBackOff(ctx, opts))
}

func newBackOff(ctx context.Context, opts Options) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultInitialBackoff
	if opts.InitialBackoff > 0 {
		b.InitialInterval = opts.InitialBackoff
	}
	b.MaxInterval = defaultMaxBackoff
	if opts.MaxBackoff > 0 {
		b.MaxInterval = opts.MaxBackoff
	}
	// The retry budget is the only stop condition.
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, opts.Retries), ctx)
}
