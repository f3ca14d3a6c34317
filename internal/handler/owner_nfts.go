package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavprovich/nft-indexer/internal/service"
)

func (h *ServiceHandler) OwnerNFTs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := service.QueryOwnerRequest{Address: chi.URLParam(r, "address")}

	resp, err := h.service.QueryOwner(ctx, &req)
	if err != nil {
		h.sendError(ctx, w, "QueryOwner", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, h.presentQuery(resp))
}
