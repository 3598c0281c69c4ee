package hypothesis

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
	"github.com/KaramelBytes/telecomx-cli/internal/stats"
)

// MannWhitneyResult holds the U statistic of the first sample and the
// two-sided p-value from the normal approximation.
type MannWhitneyResult struct {
	U      float64 `json:"u"`
	Z      float64 `json:"z"`
	PValue float64 `json:"p_value"`
}

// MannWhitneyU compares two samples without assuming normality. Ties get
// averaged ranks and the variance is tie-corrected; a continuity correction
// of 0.5 is applied.
func MannWhitneyU(a, b []float64) MannWhitneyResult {
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 {
		return MannWhitneyResult{U: math.NaN(), Z: math.NaN(), PValue: math.NaN()}
	}
	type item struct {
		value float64
		first bool
	}
	all := make([]item, 0, n1+n2)
	for _, v := range a {
		all = append(all, item{v, true})
	}
	for _, v := range b {
		all = append(all, item{v, false})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].value < all[j].value })

	var rankSumA, tieTerm float64
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].value == all[i].value {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if all[k].first {
				rankSumA += avg
			}
		}
		t := float64(j - i)
		tieTerm += t*t*t - t
		i = j
	}

	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2
	u1 := rankSumA - fn1*(fn1+1)/2
	u2 := fn1*fn2 - u1
	mu := fn1 * fn2 / 2
	sigma := math.Sqrt(fn1 * fn2 / 12 * ((n + 1) - tieTerm/(n*(n-1))))
	if sigma == 0 {
		return MannWhitneyResult{U: u1, Z: 0, PValue: 1}
	}
	z := (math.Max(u1, u2) - mu - 0.5) / sigma
	p := math.Min(1, 2*distuv.UnitNormal.Survival(z))
	return MannWhitneyResult{U: u1, Z: z, PValue: p}
}

// Comparison summarises a numeric column for retained versus churned customers.
type Comparison struct {
	Column        string  `json:"column"`
	RetainedN     int     `json:"retained_n"`
	ChurnedN      int     `json:"churned_n"`
	RetainedMed   float64 `json:"retained_median"`
	ChurnedMed    float64 `json:"churned_median"`
	MedianDiffPct float64 `json:"median_diff_pct"`
	MannWhitneyResult
	Significant bool `json:"significant"`
}

// CompareByChurn splits col by the 0/1 churn column and runs MannWhitneyU.
func CompareByChurn(df dataframe.DataFrame, churnCol, col string, alpha float64) (*Comparison, error) {
	if err := frame.MustHave(df, churnCol, col); err != nil {
		return nil, err
	}
	churn, _ := frame.Floats(df, churnCol)
	xs, _ := frame.Floats(df, col)
	var kept, left []float64
	for i, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		switch churn[i] {
		case 0:
			kept = append(kept, x)
		case 1:
			left = append(left, x)
		}
	}
	if len(kept) == 0 || len(left) == 0 {
		return nil, fmt.Errorf("compare %s: both churn groups need values (retained %d, churned %d)", col, len(kept), len(left))
	}
	mw := MannWhitneyU(kept, left)
	c := &Comparison{
		Column:            col,
		RetainedN:         len(kept),
		ChurnedN:          len(left),
		RetainedMed:       stats.Median(kept),
		ChurnedMed:        stats.Median(left),
		MannWhitneyResult: mw,
		Significant:       mw.PValue < alpha,
	}
	if c.RetainedMed != 0 {
		c.MedianDiffPct = (c.ChurnedMed - c.RetainedMed) / c.RetainedMed * 100
	}
	return c, nil
}
