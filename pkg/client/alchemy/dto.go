package alchemy

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type (
	GetNFTsForOwnerRequest struct {
		Owner    string `json:"owner"`
		PageSize int    `json:"pageSize,omitempty"`
		PageKey  string `json:"pageKey,omitempty"`
	}

	GetNFTsForOwnerResponse struct {
		OwnedNFTs  []OwnedNFT `json:"ownedNfts"`
		TotalCount int        `json:"totalCount"`
		PageKey    string     `json:"pageKey"`
	}

	// OwnedNFT is the withMetadata=false shape of an owned token.
	OwnedNFT struct {
		ContractAddress string `json:"contractAddress"`
		TokenID         string `json:"tokenId"`
		Balance         string `json:"balance"`
	}
)

type (
	GetNFTMetadataRequest struct {
		ContractAddress string `json:"contractAddress"`
		TokenID         string `json:"tokenId"`
	}

	GetNFTMetadataResponse struct {
		Contract    Contract `json:"contract"`
		TokenID     string   `json:"tokenId"`
		TokenType   string   `json:"tokenType"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Image       Image    `json:"image"`
		Raw         Raw      `json:"raw"`
	}

	Contract struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	}

	Image struct {
		CachedURL    string `json:"cachedUrl"`
		ThumbnailURL string `json:"thumbnailUrl"`
		OriginalURL  string `json:"originalUrl"`
	}

	Raw struct {
		TokenURI string      `json:"tokenUri"`
		Metadata RawMetadata `json:"metadata"`
		Error    string      `json:"error"`
	}

	RawMetadata struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
)

func (r *GetNFTsForOwnerRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.Owner, validation.Required),
		validation.Field(&r.PageSize, validation.Min(0), validation.Max(maxPageSize)),
	)
}

func (r *GetNFTMetadataRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.ContractAddress, validation.Required),
		validation.Field(&r.TokenID, validation.Required),
	)
}
