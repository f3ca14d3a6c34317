package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/unrolled/render"

	"github.com/vladislavprovich/nft-indexer/internal/handler"
	"github.com/vladislavprovich/nft-indexer/internal/worker"
	"github.com/vladislavprovich/nft-indexer/pkg/events"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	publisher, closePublisher, err := initPublisher(ctx, a)
	if err != nil {
		return err
	}
	defer closePublisher()

	pool := worker.NewPool(a.logger.Logger, a.service, a.queryStore(), publisher, a.metrics, a.cfg.Worker)
	if err = pool.Start(ctx); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	a.logger.InfoContext(ctx, "initializing service handler")
	serviceHandler := handler.NewServiceHandler(a.service, pool, a.logger.Logger, &a.cfg.Server, render.New())
	router := handler.NewRouter(serviceHandler, a.logger, a.metrics.Handler(), &a.cfg.Server)

	httpServer := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: a.cfg.Server.Timeout,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
		IdleTimeout:       a.cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.InfoContext(ctx, "Server start. Listening on port", slog.String("port", a.cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("could not listen on port %s: %w", a.cfg.Server.Port, err)
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
		a.logger.ErrorContext(shutdownCtx, "Server shutdown error", slog.Any("error", serr))
	}
	if serr := pool.Stop(shutdownCtx); serr != nil {
		a.logger.ErrorContext(shutdownCtx, "Worker shutdown error", slog.Any("error", serr))
	}

	a.logger.InfoContext(shutdownCtx, "Server gracefully shutdown")

	return err
}

// initPublisher connects to NATS when configured; otherwise completed
// queries are not announced.
func initPublisher(ctx context.Context, a *app) (events.Publisher, func(), error) {
	if a.cfg.Events.NATSURL == "" {
		a.logger.InfoContext(ctx, "nats not configured, query events disabled")
		return events.Nop{}, func() {}, nil
	}

	publisher, nc, err := events.Connect(a.cfg.Events.NATSURL, a.cfg.Events.Subject)
	if err != nil {
		return nil, nil, err
	}
	a.logger.InfoContext(ctx, "connected to nats", slog.String("subject", a.cfg.Events.Subject))

	return publisher, func() {
		if err := nc.Drain(); err != nil {
			a.logger.Error("drain nats", slog.Any("error", err))
		}
	}, nil
}
