package service

import (
	"context"
	"log/slog"
)

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

func (s *Service) Health(ctx context.Context) (*HealthResponse, error) {
	stats, err := s.cache.GetStats(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "cache stats", slog.Any("error", err))
		return &HealthResponse{Status: HealthDegraded}, nil
	}

	return &HealthResponse{
		Status: HealthOK,
		Cache:  stats,
	}, nil
}
