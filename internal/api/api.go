// Package api exposes the PCA and dedup services over HTTP. The PCA server
// runs on chi, the dedup server on gin; both share error mapping, request
// IDs and upload limits.
package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"csvstats/domain/core"
	"csvstats/internal/errors"
	"csvstats/internal/metrics"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// UploadField is the multipart field holding the CSV file
const UploadField = "file"

// Options configure both servers
type Options struct {
	// MaxUploadBytes caps the request body; zero disables the limit.
	MaxUploadBytes int64
	// Metrics enables GET /metrics when set.
	Metrics *metrics.Metrics
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

// errorResponse maps err to its HTTP status and body
func errorResponse(err error) (int, ErrorResponse) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.ProcessingFailed(err)
	}
	return errors.HTTPStatus(appErr), ErrorResponse{Detail: appErr.Detail(), Code: appErr.Code}
}

// uploadError classifies a failure to read the multipart file
func uploadError(err error, limit int64) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return errors.InvalidInput(fmt.Sprintf("Upload exceeds the %d MB limit", limit>>20))
	}
	return errors.InvalidInput(fmt.Sprintf("Missing upload field %q", UploadField))
}

// resolveRequestID keeps a well-formed client ID and generates one otherwise
func resolveRequestID(header string) core.RequestID {
	if id, err := core.ParseRequestID(header); err == nil {
		return id
	}
	return core.NewRequestID()
}

type requestIDKey struct{}

// WithRequestID stores id in ctx
func WithRequestID(ctx context.Context, id core.RequestID) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored in ctx, if any
func RequestIDFrom(ctx context.Context) core.RequestID {
	id, _ := ctx.Value(requestIDKey{}).(core.RequestID)
	return id
}
