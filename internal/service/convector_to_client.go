package service

import "github.com/vladislavprovich/nft-indexer/pkg/client/alchemy"

type ConvectorToClient struct{}

func NewConvectorToClient() *ConvectorToClient {
	return &ConvectorToClient{}
}

func (c *ConvectorToClient) ConvertToGetNFTsForOwnerRequest(
	owner string,
	pageSize int,
) *alchemy.GetNFTsForOwnerRequest {
	return &alchemy.GetNFTsForOwnerRequest{
		Owner:    owner,
		PageSize: pageSize,
	}
}

func (c *ConvectorToClient) ConvertToGetNFTMetadataRequest(
	rec OwnershipRecord,
) *alchemy.GetNFTMetadataRequest {
	return &alchemy.GetNFTMetadataRequest{
		ContractAddress: rec.ContractAddress,
		TokenID:         rec.TokenID,
	}
}
