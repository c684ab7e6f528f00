// Command dedup serves the duplicate detection service alone on DEDUP_PORT.
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

	server := api.NewDedupServer(c.InitDedup(), api.Options{
		MaxUploadBytes: c.Config.Storage.MaxUploadBytes(),
		Metrics:        c.Metrics,
	}, c.Logger)

	srv := api.NewHTTPServer(c.Config.Server.DedupPort, server.Handler())
	if err := api.Serve(ctx, srv, c.Config.Server.ShutdownTimeout, c.Logger.With("dedup")); err != nil {
		log.Fatalf("Dedup service stopped: %v", err)
	}
}
