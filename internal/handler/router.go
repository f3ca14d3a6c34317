package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vladislavprovich/nft-indexer/pkg/logger"
)

func NewRouter(handler Handler, log *logger.Logger, metrics http.Handler, cfg *Config) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.Recoverer)
	mux.Use(chiMiddleware.Timeout(cfg.Timeout))

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "X-Wallet-Address"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           int(cfg.MaxAge),
	}))

	mux.Use(chiMiddleware.RequestID)
	mux.Use(chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{
		Logger:  log,
		NoColor: true,
	}))

	mux.Get("/health", handler.Health)
	if metrics != nil {
		mux.Method(http.MethodGet, "/metrics", metrics)
	}

	mux.Route(fmt.Sprintf("/api/%s", cfg.APIVersion), func(r chi.Router) {
		r.Get("/owners/{address}/nfts", handler.OwnerNFTs)
		r.Get("/wallet/nfts", handler.WalletNFTs)
		r.Post("/queries", handler.SubmitQuery)
		r.Get("/queries/{id}", handler.GetQuery)
	})

	return mux
}
