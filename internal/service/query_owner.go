package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vladislavprovich/nft-indexer/internal/observability"
	"github.com/vladislavprovich/nft-indexer/pkg/client/alchemy"
	"github.com/vladislavprovich/nft-indexer/pkg/enrich"
	"github.com/vladislavprovich/nft-indexer/pkg/wallet"
)

func (s *Service) QueryOwner(
	ctx context.Context,
	req *QueryOwnerRequest,
) (*QueryResult, error) {
	s.logger.InfoContext(ctx, "QueryOwner", slog.Any("req", req))

	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	address, err := wallet.Normalize(req.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	records, total, err := s.lookupOwnership(ctx, address)
	if err != nil {
		s.metrics.OwnershipLookups.WithLabelValues(observability.OutcomeError).Inc()
		s.logger.ErrorContext(ctx, "service client.GetNFTsForOwner",
			slog.String("address", address),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	s.metrics.OwnershipLookups.WithLabelValues(observability.OutcomeSuccess).Inc()

	results, err := enrich.Enrich(ctx, records, s.fetchMetadata, enrich.Options{
		Cap:              s.cfg.MaxTokens,
		ConcurrencyLimit: s.cfg.MetadataConcurrency,
		Timeout:          s.cfg.MetadataTimeout,
		Retries:          s.cfg.MetadataRetries,
		InitialBackoff:   s.cfg.RetryBackoff,
		OnSettle:         s.observeFetch(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("enrich owned tokens: %w", err)
	}

	now := s.now()
	result := &QueryResult{
		Address:    address,
		Status:     StatusLoaded,
		TotalCount: total,
		Tokens:     s.convectorFromClient.ConvertFromEnrichResults(results),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.logger.InfoContext(ctx, "QueryOwner done",
		slog.String("address", address),
		slog.Int("total", total),
		slog.Int("tokens", len(result.Tokens)),
		slog.Int("failed", result.FailedCount()),
	)

	return result, nil
}

// lookupOwnership fetches the first page of owned tokens, large enough to
// cover MaxTokens.
func (s *Service) lookupOwnership(ctx context.Context, owner string) ([]OwnershipRecord, int, error) {
	integrationReq := s.convectorToClient.ConvertToGetNFTsForOwnerRequest(owner, s.cfg.MaxTokens)

	var clientResp *alchemy.GetNFTsForOwnerResponse
	op := func() error {
		resp, err := s.client.GetNFTsForOwner(ctx, integrationReq)
		if err != nil {
			return retryable(err)
		}
		clientResp = resp
		return nil
	}

	notify := func(err error, next time.Duration) {
		s.logger.WarnContext(ctx, "retrying GetNFTsForOwner",
			slog.Duration("backoff", next),
			slog.Any("error", err),
		)
	}

	if err := backoff.RetryNotify(op, s.retryPolicy(ctx, s.cfg.LookupRetries), notify); err != nil {
		return nil, 0, err
	}

	return s.convectorFromClient.ConvertFromGetNFTsForOwnerResponse(clientResp), clientResp.TotalCount, nil
}

func (s *Service) observeFetch(ctx context.Context) func(int, error, time.Duration) {
	return func(index int, err error, elapsed time.Duration) {
		s.metrics.MetadataFetchLatency.Observe(elapsed.Seconds())
		if err != nil {
			s.metrics.MetadataFetches.WithLabelValues(observability.OutcomeError).Inc()
			s.logger.WarnContext(ctx, "metadata fetch failed",
				slog.Int("index", index),
				slog.Any("error", err),
			)
			return
		}
		s.metrics.MetadataFetches.WithLabelValues(observability.OutcomeSuccess).Inc()
	}
}
