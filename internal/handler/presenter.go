package handler

import (
	"time"

	"github.com/vladislavprovich/nft-indexer/internal/service"
)

const noName = "No Name"

type (
	TokenView struct {
		Index           int    `json:"index"`
		ContractAddress string `json:"contractAddress"`
		TokenID         string `json:"tokenId"`
		DisplayName     string `json:"displayName"`
		DisplayImage    string `json:"displayImage"`
		Degraded        bool   `json:"degraded"`
		Error           string `json:"error,omitempty"`
	}

	QueryView struct {
		ID          string              `json:"id,omitempty"`
		Address     string              `json:"address"`
		Status      service.QueryStatus `json:"status"`
		TotalCount  int                 `json:"totalCount"`
		FailedCount int                 `json:"failedCount"`
		Tokens      []TokenView         `json:"tokens"`
		Error       string              `json:"error,omitempty"`
		CreatedAt   time.Time           `json:"createdAt"`
		UpdatedAt   time.Time           `json:"updatedAt"`
	}
)

// presentQuery maps a result to its display form. Failed tokens stay in the
// list, flagged as degraded and shown with the fallbacks.
func (h *ServiceHandler) presentQuery(res *service.QueryResult) QueryView {
	view := QueryView{
		ID:          res.ID,
		Address:     res.Address,
		Status:      res.Status,
		TotalCount:  res.TotalCount,
		FailedCount: res.FailedCount(),
		Tokens:      make([]TokenView, len(res.Tokens)),
		Error:       res.Error,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}

	for i, t := range res.Tokens {
		view.Tokens[i] = h.presentToken(t)
	}

	return view
}

func (h *ServiceHandler) presentToken(t service.Token) TokenView {
	v := TokenView{
		Index:           t.Index,
		ContractAddress: t.ContractAddress,
		TokenID:         t.TokenID,
		DisplayName:     noName,
		DisplayImage:    h.placeholder(),
		Degraded:        t.Metadata == nil,
		Error:           t.Error,
	}

	if t.Metadata != nil {
		if t.Metadata.Title != "" {
			v.DisplayName = t.Metadata.Title
		}
		if t.Metadata.ImageURL != "" {
			v.DisplayImage = t.Metadata.ImageURL
		}
	}

	return v
}

func (h *ServiceHandler) placeholder() string {
	if h.cfg == nil || h.cfg.PlaceholderImage == "" {
		return DefaultPlaceholderImage
	}
	return h.cfg.PlaceholderImage
}
