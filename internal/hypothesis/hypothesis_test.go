package hypothesis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
)

func TestContingency(t *testing.T) {
	df, err := frame.FromRecords([]string{"contract", "Churn"}, [][]string{
		{"Two year", "0"}, {"Month", "1"}, {"Month", "0"}, {"Month", "1"}, {"", "0"},
	})
	require.NoError(t, err)
	tab, err := Contingency(df, "contract", "Churn")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Month", "Two year"}, tab.Rows)
	assert.Equal(t, []string{"0", "1"}, tab.Cols)
	assert.Equal(t, [][]float64{{1, 0}, {1, 2}, {1, 0}}, tab.Counts)
	assert.Equal(t, 5.0, tab.Total())

	_, err = Contingency(df, "contract", "nope")
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func TestChiSquareTwoByTwoUsesYates(t *testing.T) {
	tab := &Table{
		Rows:   []string{"a", "b"},
		Cols:   []string{"0", "1"},
		Counts: [][]float64{{10, 20}, {20, 10}},
	}
	res, err := ChiSquare(tab, 0.05)
	require.NoError(t, err)
	assert.True(t, res.Corrected)
	assert.Equal(t, 1, res.DOF)
	// expected 15 everywhere; corrected |o-e| = 4.5
	assert.InDelta(t, 4*4.5*4.5/15, res.Statistic, 1e-9)
	assert.InDelta(t, 0.0201, res.PValue, 1e-3)
	assert.True(t, res.Significant)
	assert.InDelta(t, math.Sqrt((4*25.0/15)/60), res.CramersV, 1e-9)
	assert.Equal(t, [][]float64{{15, 15}, {15, 15}}, res.Expected)
}

func TestChiSquareLargerTable(t *testing.T) {
	tab := &Table{
		Rows:   []string{"a", "b", "c"},
		Cols:   []string{"0", "1"},
		Counts: [][]float64{{10, 10}, {10, 10}, {10, 10}},
	}
	res, err := ChiSquare(tab, 0.05)
	require.NoError(t, err)
	assert.False(t, res.Corrected)
	assert.Equal(t, 2, res.DOF)
	assert.InDelta(t, 0, res.Statistic, 1e-12)
	assert.InDelta(t, 1, res.PValue, 1e-12)
	assert.False(t, res.Significant)
}

func TestChiSquareRejectsDegenerateTables(t *testing.T) {
	_, err := ChiSquare(&Table{Rows: []string{"a"}, Cols: []string{"0", "1"}, Counts: [][]float64{{1, 2}}}, 0.05)
	assert.Error(t, err)

	_, err = ChiSquare(&Table{
		Rows:   []string{"a", "b"},
		Cols:   []string{"0", "1"},
		Counts: [][]float64{{0, 3}, {0, 4}},
	}, 0.05)
	assert.ErrorIs(t, err, ErrZeroExpected)
}

func TestMannWhitneyU(t *testing.T) {
	res := MannWhitneyU([]float64{1, 2, 3, 4, 5}, []float64{6, 7, 8, 9, 10})
	assert.Equal(t, 0.0, res.U)
	assert.Less(t, res.PValue, 0.05)

	same := MannWhitneyU([]float64{1, 2, 3}, []float64{1, 2, 3})
	assert.InDelta(t, 4.5, same.U, 1e-12)
	assert.InDelta(t, 1, same.PValue, 1e-12)

	flat := MannWhitneyU([]float64{2, 2}, []float64{2, 2})
	assert.Equal(t, 1.0, flat.PValue)

	assert.True(t, math.IsNaN(MannWhitneyU(nil, []float64{1}).PValue))
}

func TestCompareByChurn(t *testing.T) {
	df, err := frame.FromRecords([]string{"Churn", "tenure"}, [][]string{
		{"0", "40"}, {"0", "50"}, {"0", "60"}, {"0", "70"}, {"0", "80"},
		{"1", "1"}, {"1", "2"}, {"1", "3"}, {"1", "4"}, {"1", "x"},
	})
	require.NoError(t, err)
	c, err := CompareByChurn(df, "Churn", "tenure", 0.05)
	require.NoError(t, err)
	assert.Equal(t, 5, c.RetainedN)
	assert.Equal(t, 4, c.ChurnedN)
	assert.Equal(t, 60.0, c.RetainedMed)
	assert.Equal(t, 2.5, c.ChurnedMed)
	assert.Less(t, c.MedianDiffPct, 0.0)
	assert.Equal(t, 20.0, c.U)
	assert.True(t, c.Significant)

	only, err := frame.FromRecords([]string{"Churn", "tenure"}, [][]string{{"0", "1"}})
	require.NoError(t, err)
	_, err = CompareByChurn(only, "Churn", "tenure", 0.05)
	assert.Error(t, err)
}
