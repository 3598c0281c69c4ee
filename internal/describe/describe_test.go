package describe

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
)

func buildFrame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df, err := frame.FromRecords(
		[]string{"contract", "tenure", "monthly"},
		[][]string{
			{"Month-to-month", "1", "29.85"},
			{"One year", "34", "56.95"},
			{"Month-to-month", "2", "53.85"},
			{"Two year", "45", "42.30"},
			{"Month-to-month", "2", "70.70"},
		},
	)
	require.NoError(t, err)
	df, err = frame.AsType(df, "tenure", series.Int)
	require.NoError(t, err)
	df, err = frame.ToNumeric(df, "monthly")
	require.NoError(t, err)
	return df
}

func TestDefaultMetricsOrder(t *testing.T) {
	names := Names(DefaultMetrics())
	require.Len(t, names, 38)
	assert.Equal(t, "count", names[0])
	assert.Equal(t, "mode_lists", names[7])
	assert.Equal(t, "25%", names[10])
	assert.Equal(t, "shapiro_pvalue", names[30])
	assert.Equal(t, "kstatvar", names[37])
}

func TestSelectUnknownMetric(t *testing.T) {
	_, err := Select(DefaultMetrics(), []string{"mean", "nope"})
	assert.True(t, errors.Is(err, ErrUnknownMetric))

	m, err := Select(DefaultMetrics(), []string{"max", "min"})
	require.NoError(t, err)
	assert.Equal(t, []string{"max", "min"}, Names(m))
}

func TestFullDescribesNumericColumnsOnly(t *testing.T) {
	df := buildFrame(t)
	tab, err := Full(df, DefaultMetrics(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"tenure", "monthly"}, tab.Columns)
	assert.Len(t, tab.Index, 38)

	v, ok := tab.Get("count", "tenure")
	require.True(t, ok)
	assert.Equal(t, 5.0, v.Scalar)

	v, _ = tab.Get("mode", "tenure")
	assert.Equal(t, 2.0, v.Scalar)
	v, _ = tab.Get("mode_count", "tenure")
	assert.Equal(t, 2.0, v.Scalar)
	v, _ = tab.Get("mode_lists", "monthly")
	assert.True(t, v.IsList)
	assert.Len(t, v.List, 5)

	v, _ = tab.Get("median", "tenure")
	assert.Equal(t, 2.0, v.Scalar)
	v, _ = tab.Get("max", "monthly")
	assert.InDelta(t, 70.70, v.Scalar, 1e-9)

	_, ok = tab.Get("mean", "contract")
	assert.False(t, ok)
}

func TestFullWithoutNumericColumns(t *testing.T) {
	df, err := frame.FromRecords([]string{"a"}, [][]string{{"x"}})
	require.NoError(t, err)
	_, err = Full(df, DefaultMetrics(), nil)
	assert.ErrorIs(t, err, ErrNoNumericColumns)
}

func TestByCategory(t *testing.T) {
	df := buildFrame(t)
	tab, err := ByCategory(df, "contract", "tenure", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"tenure", "Month-to-month", "One year", "Two year"}, tab.Columns)
	assert.Equal(t, []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}, tab.Index)

	v, _ := tab.Get("count", "tenure")
	assert.Equal(t, 5.0, v.Scalar)
	v, _ = tab.Get("count", "Month-to-month")
	assert.Equal(t, 3.0, v.Scalar)
	v, _ = tab.Get("mean", "Month-to-month")
	assert.InDelta(t, 5.0/3.0, v.Scalar, 1e-9)
	v, _ = tab.Get("std", "Two year")
	assert.Equal(t, "NaN", v.String())

	_, err = ByCategory(df, "ghost", "tenure", nil)
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func TestRenderings(t *testing.T) {
	df := buildFrame(t)
	tab, err := Basic(df)
	require.NoError(t, err)

	md := tab.Markdown()
	assert.True(t, strings.HasPrefix(md, "|  | tenure | monthly |"), md)
	assert.Contains(t, md, "| count | 5 | 5 |")

	var buf bytes.Buffer
	require.NoError(t, tab.WriteCSV(&buf))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, recs, 9)
	assert.Equal(t, []string{"", "tenure", "monthly"}, recs[0])

	buf.Reset()
	tab.Render(&buf)
	assert.Contains(t, buf.String(), "tenure")
}

func TestValueFormatting(t *testing.T) {
	assert.Equal(t, "3", Scalar(3).String())
	assert.Equal(t, "0.333333", Scalar(1.0/3).String())
	assert.Equal(t, "[1, 2.5]", List([]float64{1, 2.5}).String())
}
