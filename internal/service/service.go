package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vladislavprovich/nft-indexer/internal/observability"
	"github.com/vladislavprovich/nft-indexer/pkg/cache"
	"github.com/vladislavprovich/nft-indexer/pkg/client/alchemy"
	"github.com/vladislavprovich/nft-indexer/pkg/wallet"
)

type NFTService interface {
	QueryOwner(
		ctx context.Context,
		req *QueryOwnerRequest,
	) (*QueryResult, error)
	QueryWallet(
		ctx context.Context,
		provider wallet.Provider,
	) (*QueryResult, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

type Service struct {
	logger              *slog.Logger
	client              alchemy.Client
	cache               cache.Service
	metrics             *observability.Metrics
	cfg                 Config
	convectorToClient   *ConvectorToClient
	convectorFromClient *ConvectorFromClient
	now                 func() time.Time
}

var _ NFTService = (*Service)(nil)

func NewNFTService(
	_ context.Context,
	log *slog.Logger,
	client alchemy.Client,
	cacheService cache.Service,
	metrics *observability.Metrics,
	cfg Config,
) *Service {
	if cacheService == nil {
		cacheService = cache.Nop{}
	}
	if metrics == nil {
		metrics = observability.NewMetrics("", nil)
	}

	return &Service{
		logger:              log,
		client:              client,
		cache:               cacheService,
		metrics:             metrics,
		cfg:                 cfg.withDefaults(),
		convectorToClient:   NewConvectorToClient(),
		convectorFromClient: NewConvectorFromClient(),
		now:                 time.Now,
	}
}
