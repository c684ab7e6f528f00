package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellString(t *testing.T) {
	assert.Equal(t, "None", Null().String())
	assert.Equal(t, "1", Str("1").String())
	assert.Equal(t, "", Str("").String())
	assert.True(t, Null().IsNull())
	assert.False(t, Str("x").IsNull())
}

func TestAppendRowPadsShortRows(t *testing.T) {
	tbl := NewTable([]string{"a", "b", "c"})

	require.NoError(t, tbl.AppendRow([]Cell{Str("1")}))
	assert.Equal(t, Row{Str("1"), Null(), Null()}, tbl.Rows[0])

	err := tbl.AppendRow([]Cell{Str("1"), Str("2"), Str("3"), Str("4")})
	assert.Error(t, err)
	assert.Equal(t, 1, tbl.NumRows())
}

func TestAddFloatColumn(t *testing.T) {
	tbl := NewTable([]string{"a"})
	require.NoError(t, tbl.AppendRow([]Cell{Str("x")}))
	require.NoError(t, tbl.AppendRow([]Cell{Null()}))

	require.NoError(t, tbl.AddFloatColumn("PCA_1", []float64{1.5, -0.25}))
	assert.Equal(t, []string{"a", "PCA_1"}, tbl.Columns)
	assert.Equal(t, Str("1.5"), tbl.Rows[0][1])
	assert.Equal(t, Str("-0.25"), tbl.Rows[1][1])

	assert.Error(t, tbl.AddFloatColumn("PCA_1", []float64{0, 0}))
	assert.Error(t, tbl.AddFloatColumn("PCA_2", []float64{0}))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, NewTable(nil).IsEmpty())
	assert.True(t, NewTable([]string{"a"}).IsEmpty())

	tbl := NewTable([]string{"a"})
	require.NoError(t, tbl.AppendRow([]Cell{Str("1")}))
	assert.False(t, tbl.IsEmpty())
}

func TestRecordMarshalKeepsColumnOrder(t *testing.T) {
	tbl := NewTable([]string{"zeta", "alpha", "mid"})
	require.NoError(t, tbl.AppendRow([]Cell{Str("1"), Null(), Str("say \"hi\"")}))

	out, err := json.Marshal([]Record{tbl.Record(0)})
	require.NoError(t, err)
	assert.Equal(t, `[{"zeta":"1","alpha":null,"mid":"say \"hi\""}]`, string(out))

	cell, ok := tbl.Record(0).Get("alpha")
	assert.True(t, ok)
	assert.True(t, cell.IsNull())
	_, ok = tbl.Record(0).Get("missing")
	assert.False(t, ok)
}
