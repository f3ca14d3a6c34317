package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavprovich/nft-indexer/internal/service"
)

func (h *ServiceHandler) SubmitQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.QueryOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	resp, err := h.queue.Submit(ctx, req.Address)
	if err != nil {
		h.sendError(ctx, w, "SubmitQuery", err)
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+resp.ID)
	h.sendJSON(ctx, w, http.StatusAccepted, h.presentQuery(resp))
}

func (h *ServiceHandler) GetQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.queue.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(ctx, w, "GetQuery", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, h.presentQuery(resp))
}
