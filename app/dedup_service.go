package app

import (
	"context"
	"time"

	"csvstats/adapters/stats/dedup"
	"csvstats/domain/dataset"
	"csvstats/internal"
	"csvstats/internal/errors"
	"csvstats/internal/metrics"
	"csvstats/ports"
)

// DedupServiceName labels the dedup service in logs and metrics
const DedupServiceName = "dedup"

// DedupResponse is returned for an analysed upload
type DedupResponse struct {
	Columns             []string         `json:"columns"`
	TotalRows           int              `json:"total_rows"`
	DuplicateRowsCount  int              `json:"duplicate_rows_count"`
	DuplicateRowIndices []int            `json:"duplicate_rows_indices"`
	DuplicatesPerColumn map[string]int   `json:"duplicates_per_column"`
	UniqueRowsCount     int              `json:"unique_rows_count"`
	UniqueData          []dataset.Record `json:"unique_data"`
}

// DedupService reports duplicate rows and per-column duplicate values of an
// upload. The stored upload is removed before Analyze returns.
type DedupService struct {
	storage  ports.FileStorage
	reader   ports.TableReader
	detector *dedup.Detector
	metrics  *metrics.Metrics
	logger   *internal.Logger
}

// NewDedupService creates a dedup service
func NewDedupService(storage ports.FileStorage, reader ports.TableReader, detector *dedup.Detector, logger *internal.Logger) *DedupService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DedupService{
		storage:  storage,
		reader:   reader,
		detector: detector,
		logger:   logger.With("DedupService"),
	}
}

// WithMetrics records every request in m
func (s *DedupService) WithMetrics(m *metrics.Metrics) *DedupService {
	s.metrics = m
	return s
}

// Analyze stores the upload, detects duplicates and deletes the upload
func (s *DedupService) Analyze(ctx context.Context, upload Upload) (resp *DedupResponse, err error) {
	start := time.Now()
	defer func() {
		rows := 0
		if resp != nil {
			rows = resp.TotalRows
		}
		s.metrics.Observe(DedupServiceName, rows, time.Since(start), err)
		if err != nil {
			s.logger.Warn("request %s: %s failed: %v", upload.RequestID, upload.Filename, err)
		}
	}()

	if err := ValidateFilename(upload.Filename); err != nil {
		return nil, err
	}

	path, err := s.storage.Store(ctx, upload.Body, upload.Filename)
	if err != nil {
		return nil, errors.ProcessingFailed(err)
	}
	defer func() {
		// The request may already be cancelled; removal must still happen.
		if derr := s.storage.Delete(context.Background(), path); derr != nil {
			s.logger.Error("request %s: failed to remove %s: %v", upload.RequestID, path, derr)
		}
	}()

	src, err := s.storage.Open(ctx, path)
	if err != nil {
		return nil, errors.ProcessingFailed(err)
	}
	table, err := s.reader.Read(src)
	src.Close()
	if err != nil {
		return nil, errors.ProcessingFailed(err)
	}

	report := s.detector.Detect(table)
	s.logger.Info("request %s: %s has %d rows, %d duplicates",
		upload.RequestID, upload.Filename, report.TotalRows, report.DuplicateCount())

	return &DedupResponse{
		Columns:             report.Columns,
		TotalRows:           report.TotalRows,
		DuplicateRowsCount:  report.DuplicateCount(),
		DuplicateRowIndices: report.DuplicateIndices,
		DuplicatesPerColumn: report.DuplicatesPerColumn,
		UniqueRowsCount:     report.UniqueCount(),
		UniqueData:          report.UniqueRows,
	}, nil
}
