// Command pca serves the PCA service alone on PCA_PORT.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"csvstats/internal/api"
	"csvstats/internal/container"
)

func main() {
	c, err := container.FromEnvironment()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewPCAServer(c.InitPCA(), api.Options{
		MaxUploadBytes: c.Config.Storage.MaxUploadBytes(),
		Metrics:        c.Metrics,
	}, c.Logger)

	srv := api.NewHTTPServer(c.Config.Server.PCAPort, server.Handler())
	if err := api.Serve(ctx, srv, c.Config.Server.ShutdownTimeout, c.Logger.With("pca")); err != nil {
		log.Fatalf("PCA service stopped: %v", err)
	}
}
