package service

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vladislavprovich/nft-indexer/pkg/cache"
)

// QueryStatus replaces the "has queried" and "loading" flags with one state.
type QueryStatus string

const (
	StatusNotQueried QueryStatus = "not_queried"
	StatusLoading    QueryStatus = "loading"
	StatusLoaded     QueryStatus = "loaded"
	StatusFailed     QueryStatus = "failed"
)

type (
	QueryOwnerRequest struct {
		Address string `json:"address"`
	}

	QueryResult struct {
		ID         string      `json:"id,omitempty"`
		Address    string      `json:"address"`
		Status     QueryStatus `json:"status"`
		TotalCount int         `json:"totalCount"`
		Tokens     []Token     `json:"tokens"`
		Error      string      `json:"error,omitempty"`
		CreatedAt  time.Time   `json:"createdAt"`
		UpdatedAt  time.Time   `json:"updatedAt"`
	}

	// Token is one enriched ownership record. Metadata is nil exactly when
	// Error is set.
	Token struct {
		Index           int       `json:"index"`
		ContractAddress string    `json:"contractAddress"`
		TokenID         string    `json:"tokenId"`
		Metadata        *Metadata `json:"metadata,omitempty"`
		Error           string    `json:"error,omitempty"`
	}
)

type (
	OwnershipRecord struct {
		ContractAddress string `json:"contractAddress"`
		TokenID         string `json:"tokenId"`
	}

	// Metadata is what the presentation needs; an empty ImageURL means absent.
	Metadata struct {
		Title    string `json:"title"`
		ImageURL string `json:"imageUrl,omitempty"`
	}
)

type HealthResponse struct {
	Status string       `json:"status"`
	Cache  *cache.Stats `json:"cache,omitempty"`
}

// FailedCount returns how many tokens carry an error.
func (r *QueryResult) FailedCount() int {
	var n int
	for _, t := range r.Tokens {
		if t.Error != "" {
			n++
		}
	}
	return n
}

func (r *QueryOwnerRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.Address, validation.Required),
	)
}
