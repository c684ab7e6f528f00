package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"csvstats/app"
	"csvstats/internal"
)

// DedupServer serves the dedup service on a gin engine
type DedupServer struct {
	router  *gin.Engine
	service *app.DedupService
	options Options
	logger  *internal.Logger
}

// NewDedupServer builds the engine for service. The gin mode is set by the
// caller.
func NewDedupServer(service *app.DedupService, options Options, logger *internal.Logger) *DedupServer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &DedupServer{
		router:  gin.New(),
		service: service,
		options: options,
		logger:  logger.With("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler
func (s *DedupServer) Handler() http.Handler {
	return s.router
}

func (s *DedupServer) setupMiddleware() {
	s.router.Use(ginRequestID)
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{RequestIDHeader},
	}))
}

func (s *DedupServer) setupRoutes() {
	s.router.POST("/process-csv", s.handleProcessCSV)
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	})
	if s.options.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.options.Metrics.Handler()))
	}
}

func (s *DedupServer) handleProcessCSV(c *gin.Context) {
	if s.options.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.options.MaxUploadBytes)
	}

	header, err := c.FormFile(UploadField)
	if err != nil {
		s.renderError(c, uploadError(err, s.options.MaxUploadBytes))
		return
	}
	file, err := header.Open()
	if err != nil {
		s.renderError(c, err)
		return
	}
	defer file.Close()

	resp, err := s.service.Analyze(c.Request.Context(), app.Upload{
		RequestID: RequestIDFrom(c.Request.Context()),
		Filename:  header.Filename,
		Body:      file,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *DedupServer) renderError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request %s: %v", RequestIDFrom(c.Request.Context()), err)
	}
	c.JSON(status, body)
}

// ginRequestID resolves the request ID, echoes it and stores it in the
// request context.
func ginRequestID(c *gin.Context) {
	id := resolveRequestID(c.GetHeader(RequestIDHeader))
	c.Header(RequestIDHeader, id.String())
	c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), id))
	c.Next()
}
