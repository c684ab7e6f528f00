package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvstats/adapters/csvfile"
	"csvstats/adapters/excel"
	"csvstats/adapters/stats/pca"
	"csvstats/domain/core"
	internaldataset "csvstats/internal/dataset"
	"csvstats/internal/errors"
	"csvstats/internal/metrics"
	"csvstats/internal/testkit"
)

var fixedNow = time.Date(2024, 1, 31, 15, 45, 2, 0, time.UTC)

func newPCAService(t *testing.T) (*PCAService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewPCAService(
		internaldataset.NewLocalFileStorageWithPath(dir),
		csvfile.NewReader(csvfile.ReaderConfig{Missing: csvfile.PandasNA}, nil),
		csvfile.NewWriter(),
		pca.NewReducer(pca.DefaultConfig()),
		nil,
	).WithClock(func() time.Time { return fixedNow })
	return svc, dir
}

func upload(name string, body []byte) Upload {
	return Upload{RequestID: core.NewRequestID(), Filename: name, Body: bytes.NewReader(body)}
}

func TestPCAProcessNumericTable(t *testing.T) {
	svc, dir := newPCAService(t)

	resp, err := svc.Process(context.Background(), upload("data.csv", testkit.NumericCSV(10, 3, 1)))
	require.NoError(t, err)

	assert.Equal(t, "CSV processed successfully", resp.Message)
	assert.Equal(t, 10, resp.Rows)
	assert.Equal(t, []string{"num_1", "num_2", "num_3", "PCA_1", "PCA_2"}, resp.Columns)
	assert.Equal(t, "processed_20240131_154502.csv", resp.SavedFile)
	assert.Empty(t, resp.SavedWorkbook)

	require.Len(t, resp.ExplainedVariance, 2)
	sum := 0.0
	for _, r := range resp.ExplainedVariance {
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
		sum += r
	}
	assert.LessOrEqual(t, sum, 1.0+1e-9)

	// The upload is retained next to the output.
	assert.FileExists(t, filepath.Join(dir, "data.csv"))

	out, err := os.ReadFile(filepath.Join(dir, resp.SavedFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "num_1,num_2,num_3,PCA_1,PCA_2", lines[0])
}

func TestPCAProcessKeepsTextAndMissingCells(t *testing.T) {
	svc, dir := newPCAService(t)

	body := "name,x,y\nann,1,2\nbob,,4\ncid,3,NA\n"
	resp, err := svc.Process(context.Background(), upload("mixed.csv", []byte(body)))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "x", "y", "PCA_1", "PCA_2"}, resp.Columns)

	out, err := os.ReadFile(filepath.Join(dir, resp.SavedFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "bob,,4,"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "cid,3,,"), lines[3])
}

func TestPCAProcessRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     string
		detail   string
	}{
		{"wrong suffix", "data.txt", "a,b\n1,2\n", "Only CSV files are allowed"},
		{"upper-case suffix", "data.CSV", "a,b\n1,2\n", "Only CSV files are allowed"},
		{"empty file", "empty.csv", "", "CSV is empty"},
		{"header only", "header.csv", "a,b\n", "CSV is empty"},
		{"one numeric column", "one.csv", "a,b\n1,x\n2,y\n", "Need at least 2 numeric columns for PCA"},
		{"all-missing column", "nan.csv", "a,b\n1,\n2,\n", "Need at least 2 numeric columns for PCA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, dir := newPCAService(t)

			resp, err := svc.Process(context.Background(), upload(tt.filename, []byte(tt.body)))
			require.Error(t, err)
			assert.Nil(t, resp)

			appErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.CodeInvalidInput, appErr.Code)
			assert.Equal(t, tt.detail, appErr.Detail())

			matches, _ := filepath.Glob(filepath.Join(dir, "processed_*"))
			assert.Empty(t, matches, "no output file is written")
		})
	}
}

func TestPCAProcessMalformedCSVFails(t *testing.T) {
	svc, _ := newPCAService(t)

	_, err := svc.Process(context.Background(), upload("wide.csv", []byte("a,b\n1,2\n3,4,5\n")))
	require.Error(t, err)
	assert.Equal(t, errors.CodeProcessingFailed, errors.GetCode(err))

	appErr, _ := errors.As(err)
	assert.Contains(t, appErr.Detail(), "expected 2 fields")
}

func TestPCAProcessExportsWorkbook(t *testing.T) {
	svc, dir := newPCAService(t)
	svc.WithWorkbook(excel.NewWorkbookWriter(excel.DefaultWorkbookConfig()))

	resp, err := svc.Process(context.Background(), upload("data.csv", testkit.NumericCSV(5, 2, 3)))
	require.NoError(t, err)
	assert.Equal(t, "processed_20240131_154502.xlsx", resp.SavedWorkbook)
	assert.FileExists(t, filepath.Join(dir, resp.SavedWorkbook))
}

func TestPCAProcessRecordsMetrics(t *testing.T) {
	m := metrics.New()
	svc, _ := newPCAService(t)
	svc.WithMetrics(m)

	_, err := svc.Process(context.Background(), upload("data.csv", testkit.NumericCSV(4, 2, 5)))
	require.NoError(t, err)
	_, err = svc.Process(context.Background(), upload("data.txt", nil))
	require.Error(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "csvstats_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
