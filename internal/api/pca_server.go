package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"csvstats/app"
	"csvstats/internal"
)

// PCAServer serves the PCA service on a chi router
type PCAServer struct {
	router  chi.Router
	service *app.PCAService
	options Options
	logger  *internal.Logger
}

// NewPCAServer builds the router for service
func NewPCAServer(service *app.PCAService, options Options, logger *internal.Logger) *PCAServer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &PCAServer{
		router:  chi.NewRouter(),
		service: service,
		options: options,
		logger:  logger.With("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler
func (s *PCAServer) Handler() http.Handler {
	return s.router
}

func (s *PCAServer) setupMiddleware() {
	s.router.Use(chiRequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
	}))
}

func (s *PCAServer) setupRoutes() {
	s.router.Post("/process-csv", s.handleProcessCSV)
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, HealthResponse{Status: "ok"})
	})
	if s.options.Metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.options.Metrics.Handler())
	}
}

func (s *PCAServer) handleProcessCSV(w http.ResponseWriter, r *http.Request) {
	if s.options.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.options.MaxUploadBytes)
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		s.renderError(w, r, uploadError(err, s.options.MaxUploadBytes))
		return
	}
	defer file.Close()

	resp, err := s.service.Process(r.Context(), app.Upload{
		RequestID: RequestIDFrom(r.Context()),
		Filename:  header.Filename,
		Body:      file,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	render.JSON(w, r, resp)
}

func (s *PCAServer) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request %s: %v", RequestIDFrom(r.Context()), err)
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

// chiRequestID resolves the request ID, echoes it and stores it in the
// request context.
func chiRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := resolveRequestID(r.Header.Get(RequestIDHeader))
		w.Header().Set(RequestIDHeader, id.String())
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
