package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavprovich/nft-indexer/internal/observability"
	"github.com/vladislavprovich/nft-indexer/internal/service"
	"github.com/vladislavprovich/nft-indexer/internal/storage"
	"github.com/vladislavprovich/nft-indexer/pkg/events"
	"github.com/vladislavprovich/nft-indexer/pkg/wallet"
)

var (
	// ErrCircuitOpen means recent lookups kept failing and new queries are
	// refused until the cooldown passes.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrQueueFull   = errors.New("query queue is full")
	ErrStopped     = errors.New("worker is not running")
)

// OwnerQuerier runs a single synchronous owner query.
type OwnerQuerier interface {
	QueryOwner(ctx context.Context, req *service.QueryOwnerRequest) (*service.QueryResult, error)
}

// Snapshot contains worker performance metrics.
type Snapshot struct {
	RequestsSubmitted  int64         `json:"requestsSubmitted"`
	RequestsProcessed  int64         `json:"requestsProcessed"`
	RequestsSucceeded  int64         `json:"requestsSucceeded"`
	RequestsFailed     int64         `json:"requestsFailed"`
	AverageLatency     time.Duration `json:"averageLatency"`
	ActiveJobs         int64         `json:"activeJobs"`
	QueueSize          int64         `json:"queueSize"`
	CircuitBreakerOpen bool          `json:"circuitBreakerOpen"`
}

// QueryWorker defines the asynchronous query API.
type QueryWorker interface {
	// Start launches the worker goroutines.
	Start(ctx context.Context) error

	// Stop drains the queue, cancelling in-flight jobs when ctx expires.
	Stop(ctx context.Context) error

	// Submit stores a loading result and queues the query behind it.
	Submit(ctx context.Context, address string) (*service.QueryResult, error)

	// Get returns the latest stored result for id.
	Get(ctx context.Context, id string) (*service.QueryResult, error)

	Metrics() *Snapshot
	IsHealthy() bool
}

type job struct {
	result *service.QueryResult
}

// Pool runs owner queries on a fixed set of goroutines fed by a bounded queue.
type Pool struct {
	logger    *slog.Logger
	querier   OwnerQuerier
	store     storage.QueryStore
	publisher events.Publisher
	metrics   *observability.Metrics
	config    Config
	now       func() time.Time

	jobQueue chan *job
	wg       sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	stopped  bool

	// Circuit breaker
	failureCount    int
	circuitOpen     bool
	circuitOpenTime time.Time

	submitted    atomic.Int64
	processed    atomic.Int64
	succeeded    atomic.Int64
	failed       atomic.Int64
	active       atomic.Int64
	totalLatency atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
}

var _ QueryWorker = (*Pool)(nil)

func NewPool(
	logger *slog.Logger,
	querier OwnerQuerier,
	store storage.QueryStore,
	publisher events.Publisher,
	metrics *observability.Metrics,
	config Config,
) *Pool {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if metrics == nil {
		metrics = observability.NewMetrics("", nil)
	}
	config = config.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		logger:    logger,
		querier:   querier,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
		jobQueue:  make(chan *job, config.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (p *Pool) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}
	if p.running {
		return nil
	}

	p.logger.Info("starting query worker", slog.Int("max_concurrency", p.config.MaxConcurrency))

	for i := range p.config.MaxConcurrency {
		p.wg.Add(1)
		go p.workerLoop(i)
	}
	p.running = true

	return nil
}

func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.running = false
	close(p.jobQueue)
	p.mu.Unlock()

	p.logger.Info("stopping query worker", slog.Int("queued", len(p.jobQueue)))

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	defer p.cancel()

	select {
	case <-done:
		p.logger.Info("query worker stopped")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return fmt.Errorf("stop query worker: %w", ctx.Err())
	}
}

func (p *Pool) Submit(ctx context.Context, address string) (*service.QueryResult, error) {
	normalized, err := wallet.Normalize(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrInvalidAddress, err)
	}

	if p.isCircuitOpen() {
		return nil, ErrCircuitOpen
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.running {
		return nil, ErrStopped
	}

	now := p.now()
	result := &service.QueryResult{
		ID:        uuid.NewString(),
		Address:   normalized,
		Status:    service.StatusLoading,
		Tokens:    []service.Token{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = p.store.Save(ctx, result); err != nil {
		return nil, fmt.Errorf("save query %s: %w", result.ID, err)
	}

	select {
	case p.jobQueue <- &job{result: result}:
	default:
		result.Status = service.StatusFailed
		result.Error = ErrQueueFull.Error()
		if err = p.store.Save(ctx, result); err != nil {
			p.logger.ErrorContext(ctx, "save rejected query", slog.String("id", result.ID), slog.Any("error", err))
		}
		return nil, ErrQueueFull
	}

	p.submitted.Add(1)
	p.metrics.WorkerQueueLength.Set(float64(len(p.jobQueue)))
	p.logger.InfoContext(ctx, "query submitted", slog.String("id", result.ID), slog.String("address", normalized))

	return result, nil
}

func (p *Pool) Get(ctx context.Context, id string) (*service.QueryResult, error) {
	return p.store.Get(ctx, id)
}

func (p *Pool) Metrics() *Snapshot {
	s := &Snapshot{
		RequestsSubmitted:  p.submitted.Load(),
		RequestsProcessed:  p.processed.Load(),
		RequestsSucceeded:  p.succeeded.Load(),
		RequestsFailed:     p.failed.Load(),
		ActiveJobs:         p.active.Load(),
		QueueSize:          int64(len(p.jobQueue)),
		CircuitBreakerOpen: p.isCircuitOpen(),
	}
	if s.RequestsProcessed > 0 {
		s.AverageLatency = time.Duration(p.totalLatency.Load() / s.RequestsProcessed)
	}
	return s
}

func (p *Pool) IsHealthy() bool {
	p.mu.RLock()
	running := p.running
	p.mu.RUnlock()

	return running && !p.isCircuitOpen()
}

func (p *Pool) workerLoop(id int) {
	defer p.wg.Done()

	p.logger.Debug("worker started", slog.Int("worker_id", id))

	for j := range p.jobQueue {
		p.metrics.WorkerQueueLength.Set(float64(len(p.jobQueue)))
		p.processJob(j)
	}

	p.logger.Debug("worker stopping, job queue closed", slog.Int("worker_id", id))
}

func (p *Pool) processJob(j *job) {
	start := time.Now()
	p.active.Add(1)
	defer func() {
		p.active.Add(-1)
		p.processed.Add(1)
		p.totalLatency.Add(int64(time.Since(start)))
	}()

	ctx, cancel := context.WithTimeout(p.ctx, p.config.RequestTimeout)
	defer cancel()

	result := j.result
	if p.ctx.Err() != nil {
		p.finish(ctx, result, nil, ErrStopped)
		return
	}
	if p.isCircuitOpen() {
		p.finish(ctx, result, nil, ErrCircuitOpen)
		return
	}

	got, err := p.querier.QueryOwner(ctx, &service.QueryOwnerRequest{Address: result.Address})
	switch {
	case err == nil:
		p.recordSuccess()
	case errors.Is(err, service.ErrLookupFailed):
		p.recordFailure()
	}

	p.finish(ctx, result, got, err)
}

// finish stores the final state of a query and announces it.
func (p *Pool) finish(ctx context.Context, pending, got *service.QueryResult, err error) {
	final := *pending
	final.UpdatedAt = p.now()

	if err != nil {
		final.Status = service.StatusFailed
		final.Error = err.Error()
		p.failed.Add(1)
		p.logger.Error("query failed", slog.String("id", final.ID), slog.Any("error", err))
	} else {
		final.Status = service.StatusLoaded
		final.TotalCount = got.TotalCount
		final.Tokens = got.Tokens
		p.succeeded.Add(1)
	}
	p.metrics.QueriesTotal.WithLabelValues(string(final.Status)).Inc()

	// The query context may already be spent; persisting must not depend on it.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if serr := p.store.Save(saveCtx, &final); serr != nil {
		p.logger.Error("save query result", slog.String("id", final.ID), slog.Any("error", serr))
	}

	event := events.QueryCompleted{
		QueryID:     final.ID,
		Address:     final.Address,
		Status:      string(final.Status),
		TokenCount:  len(final.Tokens),
		FailedCount: final.FailedCount(),
		Error:       final.Error,
		CompletedAt: final.UpdatedAt,
	}
	if perr := p.publisher.Publish(saveCtx, event); perr != nil {
		p.logger.Warn("publish query completed", slog.String("id", final.ID), slog.Any("error", perr))
	}
}

func (p *Pool) isCircuitOpen() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.circuitOpen {
		return false
	}

	// Half-open after the cooldown: the next job is let through.
	return time.Since(p.circuitOpenTime) <= p.config.CircuitBreakerCooldown
}

func (p *Pool) recordFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failureCount++
	if p.failureCount >= p.config.CircuitBreakerMax && !p.circuitOpen {
		p.circuitOpen = true
		p.circuitOpenTime = time.Now()
		p.metrics.CircuitOpen.Set(1)
		p.logger.Warn("circuit breaker opened", slog.Int("consecutive_failures", p.failureCount))
	} else if p.circuitOpen {
		// A failed probe restarts the cooldown.
		p.circuitOpenTime = time.Now()
	}
}

func (p *Pool) recordSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failureCount = 0
	if p.circuitOpen {
		p.circuitOpen = false
		p.metrics.CircuitOpen.Set(0)
		p.logger.Info("circuit breaker closed")
	}
}
