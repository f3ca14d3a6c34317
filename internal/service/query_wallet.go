package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vladislavprovich/nft-indexer/pkg/wallet"
)

// QueryWallet queries the account a wallet provider selects, asking it for
// access when nothing is selected yet.
func (s *Service) QueryWallet(
	ctx context.Context,
	provider wallet.Provider,
) (*QueryResult, error) {
	address, err := wallet.Resolve(ctx, provider)
	if err != nil {
		s.logger.WarnContext(ctx, "wallet unavailable", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrWalletUnavailable, err)
	}

	return s.QueryOwner(ctx, &QueryOwnerRequest{Address: address})
}
