package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"csvstats/internal"
)

// Serve runs srv until ctx is cancelled, then shuts it down within timeout
func Serve(ctx context.Context, srv *http.Server, timeout time.Duration, logger *internal.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server on %s failed: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("shutting down %s", srv.Addr)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown of %s failed: %w", srv.Addr, err)
	}
	return nil
}

// NewHTTPServer binds handler to the given port on all interfaces
func NewHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
