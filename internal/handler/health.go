package handler

import (
	"net/http"

	"github.com/vladislavprovich/nft-indexer/internal/service"
	"github.com/vladislavprovich/nft-indexer/internal/worker"
	"github.com/vladislavprovich/nft-indexer/pkg/cache"
)

type HealthResponse struct {
	Status string        `json:"status"`
	Worker *WorkerHealth `json:"worker,omitempty"`
	Cache  *cache.Stats  `json:"cache,omitempty"`
}

type WorkerHealth struct {
	Healthy bool             `json:"healthy"`
	Metrics *worker.Snapshot `json:"metrics"`
}

func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.Health(ctx)
	if err != nil {
		h.sendError(ctx, w, "Health", err)
		return
	}

	out := HealthResponse{Status: resp.Status, Cache: resp.Cache}
	if h.queue != nil {
		out.Worker = &WorkerHealth{
			Healthy: h.queue.IsHealthy(),
			Metrics: h.queue.Metrics(),
		}
		if !out.Worker.Healthy {
			out.Status = service.HealthDegraded
		}
	}

	h.sendJSON(ctx, w, http.StatusOK, out)
}
