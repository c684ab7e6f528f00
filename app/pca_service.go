package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"csvstats/adapters/stats/pca"
	"csvstats/domain/dataset"
	"csvstats/internal"
	"csvstats/internal/errors"
	"csvstats/internal/metrics"
	"csvstats/ports"
)

// PCAServiceName labels the PCA service in logs and metrics
const PCAServiceName = "pca"

// processedLayout stamps output files, e.g. processed_20240131_154502.csv
const processedLayout = "20060102_150405"

// PCAResponse is returned for a processed upload
type PCAResponse struct {
	Message           string    `json:"message"`
	Rows              int       `json:"rows"`
	Columns           []string  `json:"columns"`
	SavedFile         string    `json:"saved_file"`
	ExplainedVariance []float64 `json:"explained_variance"`
	SavedWorkbook     string    `json:"saved_workbook,omitempty"`
}

// PCAService stores an upload, reduces its numeric columns to two principal
// components and writes the augmented table next to it. The upload itself
// is kept in the working directory.
type PCAService struct {
	storage  ports.FileStorage
	reader   ports.TableReader
	writer   ports.TableWriter
	workbook ports.TableWriter
	reducer  *pca.Reducer
	metrics  *metrics.Metrics
	logger   *internal.Logger
	now      func() time.Time
}

// NewPCAService creates a PCA service
func NewPCAService(storage ports.FileStorage, reader ports.TableReader, writer ports.TableWriter, reducer *pca.Reducer, logger *internal.Logger) *PCAService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PCAService{
		storage: storage,
		reader:  reader,
		writer:  writer,
		reducer: reducer,
		logger:  logger.With("PCAService"),
		now:     time.Now,
	}
}

// WithWorkbook also exports every processed table through w
func (s *PCAService) WithWorkbook(w ports.TableWriter) *PCAService {
	s.workbook = w
	return s
}

// WithMetrics records every request in m
func (s *PCAService) WithMetrics(m *metrics.Metrics) *PCAService {
	s.metrics = m
	return s
}

// WithClock replaces the clock used to name output files
func (s *PCAService) WithClock(now func() time.Time) *PCAService {
	s.now = now
	return s
}

// Process runs the full pipeline for one upload. Errors are *errors.AppError
// with CodeInvalidInput or CodeProcessingFailed.
func (s *PCAService) Process(ctx context.Context, upload Upload) (resp *PCAResponse, err error) {
	start := time.Now()
	defer func() {
		rows := 0
		if resp != nil {
			rows = resp.Rows
		}
		s.metrics.Observe(PCAServiceName, rows, time.Since(start), err)
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
	s.logger.Debug("request %s: stored upload at %s", upload.RequestID, path)

	src, err := s.storage.Open(ctx, path)
	if err != nil {
		return nil, errors.ProcessingFailed(err)
	}
	table, err := s.reader.Read(src)
	src.Close()
	if err != nil {
		return nil, errors.ProcessingFailed(err)
	}

	result, err := s.reducer.Reduce(table)
	switch {
	case stderrors.Is(err, pca.ErrEmptyTable), stderrors.Is(err, pca.ErrTooFewNumericColumns):
		return nil, errors.InvalidInput(err.Error())
	case err != nil:
		return nil, errors.ProcessingFailed(err)
	}

	if err := s.reducer.Augment(table, result); err != nil {
		return nil, errors.ProcessingFailed(err)
	}

	stamp := s.now().Format(processedLayout)
	savedFile := fmt.Sprintf("processed_%s.csv", stamp)
	if err := s.save(ctx, savedFile, s.writer, table); err != nil {
		return nil, errors.ProcessingFailed(err)
	}

	resp = &PCAResponse{
		Message:           "CSV processed successfully",
		Rows:              table.NumRows(),
		Columns:           append([]string{}, table.Columns...),
		SavedFile:         savedFile,
		ExplainedVariance: result.ExplainedVarianceRatio,
	}

	if s.workbook != nil {
		workbook := fmt.Sprintf("processed_%s.xlsx", stamp)
		if err := s.save(ctx, workbook, s.workbook, table); err != nil {
			return nil, errors.ProcessingFailed(err)
		}
		resp.SavedWorkbook = workbook
	}

	s.logger.Info("request %s: %s reduced %d rows over %d numeric columns to %s (explained variance %v)",
		upload.RequestID, upload.Filename, resp.Rows, len(result.NumericColumns), savedFile, result.ExplainedVarianceRatio)
	return resp, nil
}

// save writes table to name in the working directory through w
func (s *PCAService) save(ctx context.Context, name string, w ports.TableWriter, table *dataset.Table) error {
	dest, path, err := s.storage.Create(ctx, name)
	if err != nil {
		return err
	}
	if err := w.Write(dest, table); err != nil {
		dest.Close()
		s.storage.Delete(ctx, path)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := dest.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}
