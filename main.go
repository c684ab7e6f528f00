package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"csvstats/internal/api"
	"csvstats/internal/container"
)

// Runs the PCA service on PCA_PORT and the dedup service on DEDUP_PORT in
// one process. Both share the upload directory and the metrics registry.
func main() {
	c, err := container.FromEnvironment()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	options := api.Options{
		MaxUploadBytes: c.Config.Storage.MaxUploadBytes(),
		Metrics:        c.Metrics,
	}
	pcaServer := api.NewPCAServer(c.InitPCA(), options, c.Logger)
	dedupServer := api.NewDedupServer(c.InitDedup(), options, c.Logger)

	timeout := c.Config.Server.ShutdownTimeout
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv := api.NewHTTPServer(c.Config.Server.PCAPort, pcaServer.Handler())
		return api.Serve(ctx, srv, timeout, c.Logger.With("pca"))
	})
	g.Go(func() error {
		srv := api.NewHTTPServer(c.Config.Server.DedupPort, dedupServer.Handler())
		return api.Serve(ctx, srv, timeout, c.Logger.With("dedup"))
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	c.Logger.Info("All services stopped")
}
