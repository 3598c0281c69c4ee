// Package profile builds a one-page profile of a DataFrame: per-column kind
// and statistics, robust outlier counts, group-by means, correlations and
// sample rows.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
	"github.com/KaramelBytes/telecomx-cli/internal/stats"
)

// Options controls what the profile computes.
type Options struct {
	// SampleRows determines how many head rows to include in the report.
	SampleRows int
	// GroupBy computes per-group numeric means for the given column names.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outliers counts values with robust |z| (MAD based) above OutlierThreshold.
	Outliers         bool
	OutlierThreshold float64
	// CategoricalMax is the distinct-value ceiling for a text column to count as categorical.
	CategoricalMax int
}

// DefaultOptions returns reasonable defaults for the churn dataset.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Correlations:     true,
		Outliers:         true,
		OutlierThreshold: 3.5,
		CategoricalMax:   50,
	}
}

// Column kinds.
const (
	KindNumeric     = "numeric"
	KindBinary      = "binary"
	KindCategorical = "categorical"
	KindText        = "text"
	KindEmpty       = "empty"
)

// Report is a markdown-friendly profile of a dataset.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
	Groups   []GroupResult
	Corr     *CorrMatrix
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical top values
	TopValues    []CategoryCount
	ExampleTexts []string
}

// MissingPct returns the share of missing cells in percent.
func (c ColumnSummary) MissingPct() float64 {
	total := c.NonNull + c.Missing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100 / float64(total)
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult captures numeric means per group key.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary // by column name
}

type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// column is the per-column working state while building.
type column struct {
	name   string
	values []float64 // NaN for missing or non-numeric
	text   []string
	isNum  bool
}

// Build profiles df under the given display name.
func Build(name string, df dataframe.DataFrame, opt Options) (*Report, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if opt.OutlierThreshold <= 0 {
		opt.OutlierThreshold = 3.5
	}
	if opt.CategoricalMax <= 0 {
		opt.CategoricalMax = 50
	}
	if opt.SampleRows <= 0 {
		opt.SampleRows = 5
	}
	if err := frame.MustHave(df, opt.GroupBy...); err != nil {
		return nil, err
	}
	rep := &Report{Name: name, Rows: df.Nrow()}
	cols := make([]column, 0, df.Ncol())
	for _, n := range df.Names() {
		cols = append(cols, readColumn(df.Col(n)))
	}

	var numIdx []int
	for i, c := range cols {
		s := summarize(c, opt)
		rep.Cols = append(rep.Cols, s)
		if s.Kind == KindNumeric || s.Kind == KindBinary {
			numIdx = append(numIdx, i)
		}
		if s.Kind == KindEmpty {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has no values", s.Name))
		} else if s.Unique == 1 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s is constant", s.Name))
		}
		if s.Missing > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has %d missing values (%.1f%%)", s.Name, s.Missing, s.MissingPct()))
		}
	}

	if len(opt.GroupBy) > 0 {
		rep.Groups = groupBy(df, cols, numIdx, opt.GroupBy)
	}
	if opt.Correlations && len(numIdx) >= 2 {
		rep.Corr = correlations(cols, numIdx)
	}
	records := df.Records()
	for i := 1; i < len(records) && len(rep.Samples) < opt.SampleRows; i++ {
		rep.Samples = append(rep.Samples, records[i])
	}
	return rep, nil
}

// readColumn captures the raw text and, when every non-missing value parses
// as a number, the numeric view of a series.
func readColumn(s series.Series) column {
	c := column{name: s.Name, text: frame.Records(s), values: make([]float64, s.Len())}
	if frame.IsNumeric(s) {
		copy(c.values, s.Float())
		c.isNum = true
		return c
	}
	c.isNum = true
	seen := 0
	for i, v := range c.text {
		v = strings.TrimSpace(v)
		if s.Elem(i).IsNA() || v == "" {
			c.values[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.isNum = false
			break
		}
		c.values[i] = f
		seen++
	}
	if seen == 0 {
		c.isNum = false
	}
	if !c.isNum {
		for i, v := range c.text {
			if s.Elem(i).IsNA() || strings.TrimSpace(v) == "" {
				c.values[i] = math.NaN()
			}
		}
	}
	return c
}

func summarize(c column, opt Options) ColumnSummary {
	s := ColumnSummary{Name: c.name}
	cats := map[string]int{}
	var present []float64
	for i, v := range c.values {
		if math.IsNaN(v) {
			s.Missing++
			continue
		}
		s.NonNull++
		if c.isNum {
			present = append(present, v)
		} else {
			cats[c.text[i]]++
		}
	}
	switch {
	case s.NonNull == 0:
		s.Kind = KindEmpty
	case c.isNum:
		s.Unique = int(stats.CountUnique(present))
		s.Kind = KindNumeric
		if isBinary(present) {
			s.Kind = KindBinary
		}
		s.Min, s.Max = stats.Min(present), stats.Max(present)
		s.Mean = stat.Mean(present, nil)
		if len(present) > 1 {
			s.Std = stat.StdDev(present, nil)
		}
		if opt.Outliers && s.Kind == KindNumeric && len(present) >= 8 {
			s.OutliersCount, s.OutliersMaxAbsZ = robustOutliers(present, opt.OutlierThreshold)
			s.OutlierThreshold = opt.OutlierThreshold
		}
	default:
		s.Unique = len(cats)
		if s.Unique <= opt.CategoricalMax {
			s.Kind = KindCategorical
			s.TopValues = topValues(cats, 8)
		} else {
			s.Kind = KindText
			for _, v := range c.text {
				if len(s.ExampleTexts) == 3 {
					break
				}
				if strings.TrimSpace(v) != "" {
					s.ExampleTexts = append(s.ExampleTexts, v)
				}
			}
		}
	}
	return s
}

func isBinary(xs []float64) bool {
	for _, x := range xs {
		if x != 0 && x != 1 {
			return false
		}
	}
	return true
}

// robustOutliers counts values whose modified z-score 0.6745*(x-median)/MAD
// exceeds thr, and reports the largest |z| seen.
func robustOutliers(xs []float64, thr float64) (int, float64) {
	median := stats.Median(xs)
	mad := stats.MedianAbsDeviation(xs)
	if mad == 0 || math.IsNaN(mad) {
		return 0, 0
	}
	var cnt int
	var maxAbsZ float64
	for _, v := range xs {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			cnt++
		}
		if az > maxAbsZ {
			maxAbsZ = az
		}
	}
	return cnt, maxAbsZ
}

func topValues(cats map[string]int, n int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > n {
		tops = tops[:n]
	}
	return tops
}

func groupBy(df dataframe.DataFrame, cols []column, numIdx []int, by []string) []GroupResult {
	keys := make([]string, df.Nrow())
	for _, name := range by {
		vals := df.Col(name).Records()
		for i, v := range vals {
			part := fmt.Sprintf("%s=%s", name, safeVal(v))
			if keys[i] == "" {
				keys[i] = part
			} else {
				keys[i] += " | " + part
			}
		}
	}
	type acc struct {
		size     int
		sum      map[int]float64
		cnt      map[int]int
		min, max map[int]float64
	}
	groups := map[string]*acc{}
	for row, k := range keys {
		g := groups[k]
		if g == nil {
			g = &acc{sum: map[int]float64{}, cnt: map[int]int{}, min: map[int]float64{}, max: map[int]float64{}}
			groups[k] = g
		}
		g.size++
		for _, j := range numIdx {
			x := cols[j].values[row]
			if math.IsNaN(x) {
				continue
			}
			g.sum[j] += x
			g.cnt[j]++
			if m, ok := g.min[j]; !ok || x < m {
				g.min[j] = x
			}
			if m, ok := g.max[j]; !ok || x > m {
				g.max[j] = x
			}
		}
	}
	out := make([]GroupResult, 0, len(groups))
	for k, g := range groups {
		gr := GroupResult{Key: k, Size: g.size, Metrics: map[string]NumSummary{}}
		for _, j := range numIdx {
			if g.cnt[j] == 0 {
				continue
			}
			gr.Metrics[cols[j].name] = NumSummary{Count: g.cnt[j], Min: g.min[j], Max: g.max[j], Mean: g.sum[j] / float64(g.cnt[j])}
		}
		out = append(out, gr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if len(out) > 20 {
		out = out[:20]
	}
	return out
}

// correlations computes pairwise Pearson r over rows where both columns are present.
func correlations(cols []column, numIdx []int) *CorrMatrix {
	n := len(numIdx)
	names := make([]string, n)
	mat := make([][]float64, n)
	for i, j := range numIdx {
		names[i] = cols[j].name
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			xa, xb := cols[numIdx[a]].values, cols[numIdx[b]].values
			var x, y []float64
			for i := range xa {
				if !math.IsNaN(xa[i]) && !math.IsNaN(xb[i]) {
					x = append(x, xa[i])
					y = append(y, xb[i])
				}
			}
			var r float64
			if len(x) >= 2 {
				r = stat.Correlation(x, y, nil)
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			r = math.Max(-1, math.Min(1, r))
			mat[a][b], mat[b][a] = r, r
		}
	}
	return &CorrMatrix{Columns: names, Values: mat}
}

// TopPairs returns the n strongest correlations by |r|.
func (m *CorrMatrix) TopPairs(n int) []PairCorr {
	var pairs []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
