package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/unrolled/render"

	"github.com/vladislavprovich/nft-indexer/internal/service"
	"github.com/vladislavprovich/nft-indexer/internal/storage"
	"github.com/vladislavprovich/nft-indexer/internal/worker"
)

type Handler interface {
	OwnerNFTs(w http.ResponseWriter, r *http.Request)
	WalletNFTs(w http.ResponseWriter, r *http.Request)
	SubmitQuery(w http.ResponseWriter, r *http.Request)
	GetQuery(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

// QueryQueue is the part of the worker pool the API drives.
type QueryQueue interface {
	Submit(ctx context.Context, address string) (*service.QueryResult, error)
	Get(ctx context.Context, id string) (*service.QueryResult, error)
	Metrics() *worker.Snapshot
	IsHealthy() bool
}

type ServiceHandler struct {
	service service.NFTService
	queue   QueryQueue
	logger  *slog.Logger
	cfg     *Config
	render  *render.Render
}

var _ Handler = (*ServiceHandler)(nil)

func NewServiceHandler(
	srv service.NFTService,
	queue QueryQueue,
	logger *slog.Logger,
	cfg *Config,
	render *render.Render,
) *ServiceHandler {
	return &ServiceHandler{
		service: srv,
		queue:   queue,
		logger:  logger,
		cfg:     cfg,
		render:  render,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *ServiceHandler) sendJSON(ctx context.Context, w io.Writer, status int, body any) {
	if err := h.render.JSON(w, status, body); err != nil {
		h.logger.ErrorContext(ctx, "render JSON error", slog.Any("error", err))
	}
}

func (h *ServiceHandler) sendError(ctx context.Context, w io.Writer, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, op+" error", slog.Any("error", err))
	} else {
		h.logger.WarnContext(ctx, op+" rejected", slog.Any("error", err))
	}

	h.sendJSON(ctx, w, status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrWalletUnavailable):
		return http.StatusUnauthorized
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrLookupFailed):
		return http.StatusBadGateway
	case errors.Is(err, worker.ErrCircuitOpen),
		errors.Is(err, worker.ErrQueueFull),
		errors.Is(err, worker.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
