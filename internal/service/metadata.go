package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vladislavprovich/nft-indexer/pkg/cache"
)

func metadataCacheKey(rec OwnershipRecord) string {
	return fmt.Sprintf("metadata:%s:%s", strings.ToLower(rec.ContractAddress), rec.TokenID)
}

// fetchMetadata is the per-record fetch handed to the enricher. Cache
// failures only cost a remote call.
func (s *Service) fetchMetadata(ctx context.Context, rec OwnershipRecord) (Metadata, error) {
	s.metrics.MetadataFetchesInFlight.Inc()
	defer s.metrics.MetadataFetchesInFlight.Dec()

	key := metadataCacheKey(rec)

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var m Metadata
		if err = json.Unmarshal(raw, &m); err == nil {
			s.metrics.CacheHits.Inc()
			return m, nil
		}
		s.logger.WarnContext(ctx, "dropping corrupt metadata cache entry",
			slog.String("key", key),
			slog.Any("error", err),
		)
		if err = s.cache.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "cache delete", slog.String("key", key), slog.Any("error", err))
		}
	case !errors.Is(err, cache.ErrMiss):
		s.logger.WarnContext(ctx, "cache get", slog.String("key", key), slog.Any("error", err))
	}
	s.metrics.CacheMisses.Inc()

	clientResp, err := s.client.GetNFTMetadata(ctx, s.convectorToClient.ConvertToGetNFTMetadataRequest(rec))
	if err != nil {
		return Metadata{}, retryable(err)
	}

	m := s.convectorFromClient.ConvertFromGetNFTMetadataResponse(clientResp)

	if s.cfg.MetadataCacheTTL > 0 {
		if raw, err = json.Marshal(m); err == nil {
			err = s.cache.Set(ctx, key, raw, s.cfg.MetadataCacheTTL)
		}
		if err != nil {
			s.logger.WarnContext(ctx, "cache set", slog.String("key", key), slog.Any("error", err))
		}
	}

	return m, nil
}
