package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvstats/adapters/csvfile"
	"csvstats/adapters/stats/dedup"
	internaldataset "csvstats/internal/dataset"
	"csvstats/internal/errors"
	"csvstats/internal/testkit"
)

func newDedupService(t *testing.T) (*DedupService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewDedupService(
		internaldataset.NewLocalFileStorageWithPath(dir),
		csvfile.NewReader(csvfile.ReaderConfig{Missing: csvfile.BlankNull}, nil),
		dedup.NewDetector(),
		nil,
	)
	return svc, dir
}

func TestDedupAnalyzeSimpleDuplicates(t *testing.T) {
	svc, dir := newDedupService(t)

	resp, err := svc.Analyze(context.Background(), upload("data.csv", []byte("a,b\n1,2\n1,2\n3,4\n")))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, resp.Columns)
	assert.Equal(t, 3, resp.TotalRows)
	assert.Equal(t, 1, resp.DuplicateRowsCount)
	assert.Equal(t, []int{1}, resp.DuplicateRowIndices)
	assert.Equal(t, 2, resp.UniqueRowsCount)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, resp.DuplicatesPerColumn)

	body, err := json.Marshal(resp.UniqueData)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":"1","b":"2"},{"a":"3","b":"4"}]`, string(body))

	_, err = os.Stat(filepath.Join(dir, "data.csv"))
	assert.True(t, os.IsNotExist(err), "upload is removed after analysis")
}

func TestDedupAnalyzeNullsAndWhitespace(t *testing.T) {
	svc, _ := newDedupService(t)

	resp, err := svc.Analyze(context.Background(), upload("nulls.csv", []byte("a,b\n1,\n1,  \n2,None\n")))
	require.NoError(t, err)

	assert.Equal(t, []int{1}, resp.DuplicateRowIndices)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, resp.DuplicatesPerColumn)

	body, err := json.Marshal(resp.UniqueData)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":"1","b":null},{"a":"2","b":"None"}]`, string(body))
}

func TestDedupAnalyzeHeaderOnly(t *testing.T) {
	svc, _ := newDedupService(t)

	resp, err := svc.Analyze(context.Background(), upload("header.csv", []byte("a,b\n")))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, resp.Columns)
	assert.Zero(t, resp.TotalRows)
	assert.Zero(t, resp.UniqueRowsCount)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"unique_data":[]`)
	assert.Contains(t, string(body), `"duplicate_rows_indices":[]`)
}

func TestDedupAnalyzeInvariants(t *testing.T) {
	svc, _ := newDedupService(t)
	config := testkit.DefaultCSVConfig()
	config.Rows = 60
	config.DuplicateRate = 0.3

	resp, err := svc.Analyze(context.Background(), upload("gen.csv", testkit.NewCSVGenerator(config).Generate()))
	require.NoError(t, err)

	assert.Equal(t, resp.TotalRows, resp.UniqueRowsCount+resp.DuplicateRowsCount)
	assert.Len(t, resp.UniqueData, resp.UniqueRowsCount)
	assert.NotZero(t, resp.DuplicateRowsCount)
}

func TestDedupAnalyzeRejectsWrongSuffix(t *testing.T) {
	svc, dir := newDedupService(t)

	_, err := svc.Analyze(context.Background(), upload("data.json", []byte("{}")))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestDedupAnalyzeRejectsWideRows(t *testing.T) {
	svc, dir := newDedupService(t)

	resp, err := svc.Analyze(context.Background(), upload("wide.csv", []byte("a,b\n1,2\n1,2,3\n")))
	require.Error(t, err)
	assert.Nil(t, resp, "a wider row is not reported as a duplicate of its prefix")
	assert.Equal(t, errors.CodeProcessingFailed, errors.GetCode(err))

	appErr, _ := errors.As(err)
	assert.Equal(t, "expected 2 fields in line 3, saw 3", appErr.Detail())

	_, statErr := os.Stat(filepath.Join(dir, "wide.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDedupAnalyzeRemovesUploadOnFailure(t *testing.T) {
	svc, dir := newDedupService(t)

	_, err := svc.Analyze(context.Background(), upload("bad.csv", []byte("a,b\n\"unterminated\n")))
	require.Error(t, err)
	assert.Equal(t, errors.CodeProcessingFailed, errors.GetCode(err))

	_, statErr := os.Stat(filepath.Join(dir, "bad.csv"))
	assert.True(t, os.IsNotExist(statErr))
}
