package alchemy

import (
	"context"
	"fmt"
	"net/url"
)

func (c *BasicClient) GetNFTMetadata(
	ctx context.Context,
	req *GetNFTMetadataRequest,
) (*GetNFTMetadataResponse, error) {
	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid GetNFTMetadata request: %w", err)
	}

	query := url.Values{}
	query.Set("contractAddress", req.ContractAddress)
	query.Set("tokenId", req.TokenID)

	var resp GetNFTMetadataResponse
	if err := c.getJSON(ctx, "getNFTMetadata", query, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}
