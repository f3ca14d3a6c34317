// Package storage keeps the results of asynchronous owner queries.
package storage

import (
	"context"
	"errors"

	"github.com/vladislavprovich/nft-indexer/internal/service"
)

// ErrNotFound is returned by Get for unknown or expired query IDs.
var ErrNotFound = errors.New("query not found")

type QueryStore interface {
	// Save creates or replaces the result stored under result.ID.
	Save(ctx context.Context, result *service.QueryResult) error
	Get(ctx context.Context, id string) (*service.QueryResult, error)
}
