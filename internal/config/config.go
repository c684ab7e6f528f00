package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"csvstats/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	PCA     PCAConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

// ServerConfig holds web server settings for both services
type ServerConfig struct {
	PCAPort         string        `envconfig:"PCA_PORT" default:"8000" validate:"required,numeric"`
	DedupPort       string        `envconfig:"DEDUP_PORT" default:"8001" validate:"required,numeric"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release" validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
}

// StorageConfig holds the working directory settings
type StorageConfig struct {
	UploadDir   string `envconfig:"UPLOAD_DIR" default:"uploads" validate:"required"`
	MaxUploadMB int64  `envconfig:"MAX_UPLOAD_MB" default:"50" validate:"gt=0"`
}

// PCAConfig holds settings specific to the PCA service
type PCAConfig struct {
	ExportXLSX bool `envconfig:"PCA_EXPORT_XLSX" default:"false"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"INFO" validate:"oneof=ERROR WARN INFO DEBUG TRACE error warn info debug trace"`
}

// MaxUploadBytes returns the upload limit in bytes
func (s StorageConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// Load reads configuration from environment variables and validates it.
// Callers load any .env file beforehand.
func Load() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, errors.Wrap(err, "failed to read environment configuration")
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			PCAPort:         "8000",
			DedupPort:       "8001",
			GinMode:         "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			UploadDir:   "uploads",
			MaxUploadMB: 50,
		},
		Metrics: MetricsConfig{Enabled: true},
		Logging: LoggingConfig{Level: "INFO"},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}
