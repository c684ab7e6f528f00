package container

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"csvstats/adapters/csvfile"
	"csvstats/adapters/excel"
	"csvstats/adapters/stats/dedup"
	"csvstats/adapters/stats/pca"
	"csvstats/app"
	"csvstats/internal"
	"csvstats/internal/config"
	"csvstats/internal/dataset"
	"csvstats/internal/metrics"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Storage *dataset.LocalFileStorage
	Metrics *metrics.Metrics // nil when METRICS_ENABLED=false

	// Services
	PCAService   *app.PCAService
	DedupService *app.DedupService
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Storage: dataset.NewLocalFileStorageWithPath(cfg.Storage.UploadDir),
	}

	if err := c.Storage.EnsureDir(); err != nil {
		return nil, err
	}
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.New()
	}

	return c, nil
}

// FromEnvironment loads .env, reads the configuration and builds a container
func FromEnvironment() (*Container, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.GinMode)

	return New(cfg, nil)
}

// InitPCA builds the PCA service
func (c *Container) InitPCA() *app.PCAService {
	if c.PCAService != nil {
		return c.PCAService
	}

	reader := csvfile.NewReader(csvfile.ReaderConfig{Missing: csvfile.PandasNA}, c.Logger)

	c.PCAService = app.NewPCAService(
		c.Storage,
		reader,
		csvfile.NewWriter(),
		pca.NewReducer(pca.DefaultConfig()),
		c.Logger,
	).WithMetrics(c.Metrics)

	if c.Config.PCA.ExportXLSX {
		c.PCAService.WithWorkbook(excel.NewWorkbookWriter(excel.DefaultWorkbookConfig()))
		c.Logger.Info("XLSX export enabled")
	}

	return c.PCAService
}

// InitDedup builds the dedup service
func (c *Container) InitDedup() *app.DedupService {
	if c.DedupService != nil {
		return c.DedupService
	}

	reader := csvfile.NewReader(csvfile.ReaderConfig{Missing: csvfile.BlankNull}, c.Logger)
	c.DedupService = app.NewDedupService(c.Storage, reader, dedup.NewDetector(), c.Logger).
		WithMetrics(c.Metrics)

	return c.DedupService
}
