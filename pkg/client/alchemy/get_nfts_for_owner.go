package alchemy

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const maxPageSize = 100

func (c *BasicClient) GetNFTsForOwner(
	ctx context.Context,
	req *GetNFTsForOwnerRequest,
) (*GetNFTsForOwnerResponse, error) {
	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid GetNFTsForOwner request: %w", err)
	}

	query := url.Values{}
	query.Set("owner", req.Owner)
	query.Set("withMetadata", "false")
	if req.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(req.PageSize))
	}
	if req.PageKey != "" {
		query.Set("pageKey", req.PageKey)
	}

	var resp GetNFTsForOwnerResponse
	if err := c.getJSON(ctx, "getNFTsForOwner", query, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}
