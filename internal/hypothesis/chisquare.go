// Package hypothesis runs the significance tests used to relate customer
// attributes to churn.
package hypothesis

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
)

// ErrZeroExpected means some cell of the expected-frequency table is zero.
var ErrZeroExpected = errors.New("chi-square: expected frequency of zero")

// Table is a cross-tabulation of two categorical columns.
type Table struct {
	RowName, ColName string
	Rows, Cols       []string
	Counts           [][]float64
}

// Total returns the sum of all cells.
func (t *Table) Total() float64 {
	var n float64
	for _, r := range t.Counts {
		for _, c := range r {
			n += c
		}
	}
	return n
}

// Contingency cross-tabulates columns a (rows) and b (columns). Levels are
// sorted; rows with a missing value in either column are skipped.
func Contingency(df dataframe.DataFrame, a, b string) (*Table, error) {
	if err := frame.MustHave(df, a, b); err != nil {
		return nil, err
	}
	rows, _ := frame.Unique(df, a)
	cols, _ := frame.Unique(df, b)
	ri := position(rows)
	ci := position(cols)
	av, _ := frame.Strings(df, a)
	bv, _ := frame.Strings(df, b)
	counts := make([][]float64, len(rows))
	for i := range counts {
		counts[i] = make([]float64, len(cols))
	}
	for i := range av {
		r, ok1 := ri[av[i]]
		c, ok2 := ci[bv[i]]
		if ok1 && ok2 {
			counts[r][c]++
		}
	}
	return &Table{RowName: a, ColName: b, Rows: rows, Cols: cols, Counts: counts}, nil
}

func position(levels []string) map[string]int {
	m := make(map[string]int, len(levels))
	for i, l := range levels {
		m[l] = i
	}
	return m
}

// ChiSquareResult is the outcome of a test of independence.
type ChiSquareResult struct {
	Statistic   float64     `json:"statistic"`
	DOF         int         `json:"dof"`
	PValue      float64     `json:"p_value"`
	Expected    [][]float64 `json:"expected"`
	CramersV    float64     `json:"cramers_v"`
	Corrected   bool        `json:"yates_corrected"`
	Alpha       float64     `json:"alpha"`
	Significant bool        `json:"significant"`
}

// ChiSquare tests independence of the table's rows and columns. For 2x2
// tables Yates' continuity correction is applied to the statistic.
func ChiSquare(t *Table, alpha float64) (*ChiSquareResult, error) {
	r, c := len(t.Rows), len(t.Cols)
	if r < 2 || c < 2 {
		return nil, fmt.Errorf("chi-square: need at least 2x2 levels, got %dx%d", r, c)
	}
	n := t.Total()
	rowSum := make([]float64, r)
	colSum := make([]float64, c)
	for i, row := range t.Counts {
		for j, v := range row {
			rowSum[i] += v
			colSum[j] += v
		}
	}
	expected := make([][]float64, r)
	var obs, exp, corrected []float64
	dof := (r - 1) * (c - 1)
	for i := range expected {
		expected[i] = make([]float64, c)
		for j := range expected[i] {
			e := rowSum[i] * colSum[j] / n
			if e == 0 {
				return nil, fmt.Errorf("%w (row %q, column %q)", ErrZeroExpected, t.Rows[i], t.Cols[j])
			}
			expected[i][j] = e
			o := t.Counts[i][j]
			obs = append(obs, o)
			exp = append(exp, e)
			if dof == 1 {
				// move each observation half a unit toward its expectation
				d := e - o
				o += math.Copysign(math.Min(0.5, math.Abs(d)), d)
			}
			corrected = append(corrected, o)
		}
	}
	raw := stat.ChiSquare(obs, exp)
	statistic := stat.ChiSquare(corrected, exp)
	p := distuv.ChiSquared{K: float64(dof)}.Survival(statistic)
	k := math.Min(float64(r), float64(c)) - 1
	return &ChiSquareResult{
		Statistic:   statistic,
		DOF:         dof,
		PValue:      p,
		Expected:    expected,
		CramersV:    math.Sqrt(raw / (n * k)),
		Corrected:   dof == 1,
		Alpha:       alpha,
		Significant: p < alpha,
	}, nil
}
