package service

import (
	"github.com/vladislavprovich/nft-indexer/pkg/client/alchemy"
	"github.com/vladislavprovich/nft-indexer/pkg/enrich"
)

type ConvectorFromClient struct{}

func NewConvectorFromClient() *ConvectorFromClient {
	return &ConvectorFromClient{}
}

func (c *ConvectorFromClient) ConvertFromGetNFTsForOwnerResponse(
	resp *alchemy.GetNFTsForOwnerResponse,
) []OwnershipRecord {
	records := make([]OwnershipRecord, len(resp.OwnedNFTs))
	for i, nft := range resp.OwnedNFTs {
		records[i] = OwnershipRecord{
			ContractAddress: nft.ContractAddress,
			TokenID:         nft.TokenID,
		}
	}
	return records
}

// ConvertFromGetNFTMetadataResponse prefers the indexed name over the raw one
// and the raw image over the indexed ones.
func (c *ConvectorFromClient) ConvertFromGetNFTMetadataResponse(
	resp *alchemy.GetNFTMetadataResponse,
) Metadata {
	return Metadata{
		Title:    firstNonEmpty(resp.Name, resp.Raw.Metadata.Name),
		ImageURL: firstNonEmpty(resp.Raw.Metadata.Image, resp.Image.OriginalURL, resp.Image.CachedURL),
	}
}

func (c *ConvectorFromClient) ConvertFromEnrichResults(
	results []enrich.Result[OwnershipRecord, Metadata],
) []Token {
	tokens := make([]Token, len(results))
	for i, r := range results {
		tokens[i] = Token{
			Index:           r.Index,
			ContractAddress: r.Record.ContractAddress,
			TokenID:         r.Record.TokenID,
		}
		if r.OK() {
			m := r.Metadata
			tokens[i].Metadata = &m
		} else {
			tokens[i].Error = r.Err.Error()
		}
	}
	return tokens
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
