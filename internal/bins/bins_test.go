package bins

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/telecomx-cli/internal/churn"
	"github.com/KaramelBytes/telecomx-cli/internal/frame"
)

func TestQuantileEdges(t *testing.T) {
	edges, err := Quantile([]float64{1, 2, 3, 4, 5, math.NaN()}, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, edges)

	// heavy ties collapse duplicate edges
	edges, err = Quantile([]float64{0, 0, 0, 0, 0, 0, 1, 2}, 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, edges[0])
	assert.Less(t, len(edges), 5)

	_, err = Quantile([]float64{7, 7}, 3)
	assert.ErrorIs(t, err, ErrEdges)
	_, err = Quantile([]float64{1}, 0)
	assert.Error(t, err)
}

func TestAssignLabels(t *testing.T) {
	edges := []float64{0, 12, 24, 72}
	assert.Equal(t, []string{"[0, 12]", "(12, 24]", "(24, 72]"}, Labels(edges))

	got := Assign([]float64{0, 1, 12, 12.5, 72, 80, math.NaN()}, edges)
	assert.Equal(t, []string{"[0, 12]", "[0, 12]", "[0, 12]", "(12, 24]", "(24, 72]", Missing, Missing}, got)

	assert.Equal(t, map[string]int{"[0, 12]": 0, "(12, 24]": 1, "(24, 72]": 2}, Rank(edges))
}

func TestLabelsWidenPrecision(t *testing.T) {
	edges := []float64{0, 1.0001, 1.0002, 2}
	assert.Equal(t, []string{"[0, 1.0001]", "(1.0001, 1.0002]", "(1.0002, 2]"}, Labels(edges))
	assert.Len(t, Rank(edges), 3)

	got := Assign([]float64{1.00015, 1.5}, edges)
	assert.Equal(t, []string{"(1.0001, 1.0002]", "(1.0002, 2]"}, got)
}

func TestOutOfRangeRowsAreNotACategory(t *testing.T) {
	df, err := frame.FromRecords([]string{"tenure", "Churn"}, [][]string{{"1", "1"}, {"5", "0"}, {"50", "1"}, {"70", "0"}})
	require.NoError(t, err)
	df, err = AddBinColumn(df, "tenure", []float64{0, 12}, "bin")
	require.NoError(t, err)
	levels, err := frame.Unique(df, "bin")
	require.NoError(t, err)
	assert.Equal(t, []string{"[0, 12]"}, levels)
	n, err := frame.NUnique(df, "bin")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rates, err := churn.ByCategory(df, "bin")
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "[0, 12]", rates[0].Category)
	assert.Equal(t, 2, rates[0].Customers)
	assert.Equal(t, 100.0, rates[0].PercTotalCustomer)
	assert.Equal(t, 50.0, rates[0].PercChurnCustomer)
}

func TestFixed(t *testing.T) {
	e, err := Fixed([]float64{24, 0, 12})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 12, 24}, e)

	_, err = Fixed([]float64{1, 1})
	assert.Error(t, err)
	_, err = Fixed([]float64{1})
	assert.ErrorIs(t, err, ErrEdges)
}

func TestAddBinColumn(t *testing.T) {
	df, err := frame.FromRecords([]string{"tenure"}, [][]string{{"1"}, {"30"}, {"x"}})
	require.NoError(t, err)
	df, err = AddBinColumn(df, "tenure", []float64{0, 12, 72}, "")
	require.NoError(t, err)
	labels, err := frame.Strings(df, "tenure_bin")
	require.NoError(t, err)
	assert.Equal(t, []string{"[0, 12]", "(12, 72]", "NaN"}, labels)
	assert.True(t, df.Col("tenure_bin").Elem(2).IsNA())

	_, err = AddBinColumn(df, "missing", []float64{0, 1}, "b")
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}
