package describe

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/telecomx-cli/internal/stats"
)

// ErrUnknownMetric is returned by Select for names missing from the registry.
var ErrUnknownMetric = errors.New("unknown metric")

// Value is a table cell: a scalar, or a list for multi-valued metrics such as mode_lists.
type Value struct {
	Scalar float64
	List   []float64
	IsList bool
}

// Scalar wraps a float64.
func Scalar(f float64) Value { return Value{Scalar: f} }

// List wraps a slice.
func List(xs []float64) Value { return Value{List: xs, IsList: true} }

func (v Value) String() string {
	if !v.IsList {
		return formatFloat(v.Scalar)
	}
	parts := make([]string, len(v.List))
	for i, x := range v.List {
		parts[i] = formatFloat(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Metric is one named aggregation applied to the non-missing values of a column.
type Metric struct {
	Name string
	Fn   func([]float64) Value
}

func scalar(name string, f func([]float64) float64) Metric {
	return Metric{Name: name, Fn: func(x []float64) Value { return Scalar(f(x)) }}
}

func percentile(q float64) func([]float64) float64 {
	return func(x []float64) float64 { return stats.Percentile(x, q) }
}

// DefaultMetrics returns the full ordered registry used by Full.
func DefaultMetrics() []Metric {
	return []Metric{
		scalar("count", stats.Count),
		scalar("count_zero", stats.CountZero),
		scalar("count_nonzero", stats.CountNonZero),
		scalar("count_unique", stats.CountUnique),
		scalar("mean", stats.Mean),
		scalar("median", stats.Median),
		scalar("mode", stats.Mode),
		{Name: "mode_lists", Fn: func(x []float64) Value { return List(stats.ModeLists(x)) }},
		scalar("mode_count", stats.ModeCount),
		scalar("min", stats.Min),
		scalar("25%", percentile(25)),
		scalar("50%", stats.Median),
		scalar("75%", percentile(75)),
		scalar("max", stats.Max),
		scalar("range_values", stats.Range),
		scalar("iqr", stats.IQR),
		scalar("lower_outlier", func(x []float64) float64 { return stats.OutlierFence(x, stats.Lower) }),
		scalar("count_lower_outlier", func(x []float64) float64 { return stats.CountOutliers(x, stats.Lower) }),
		scalar("upper_outlier", func(x []float64) float64 { return stats.OutlierFence(x, stats.Upper) }),
		scalar("count_upper_outlier", func(x []float64) float64 { return stats.CountOutliers(x, stats.Upper) }),
		scalar("mean_abs_deviation", stats.MeanAbsDeviation),
		scalar("std", stats.Std),
		scalar("median_abs_deviation", stats.MedianAbsDeviation),
		scalar("median_abs_deviation_norm", stats.MedianAbsDeviationNorm),
		scalar("coefficient_variation", stats.CoefficientVariation),
		scalar("variance", stats.Variance),
		scalar("kurt", stats.Kurt),
		scalar("kurtosis", stats.Kurtosis),
		scalar("skew", stats.Skew),
		scalar("shapiro_stat", stats.ShapiroStat),
		scalar("shapiro_pvalue", stats.ShapiroPValue),
		scalar("autocorr", stats.Autocorr),
		scalar("circvar", stats.CircVar),
		scalar("circmean", stats.CircMean),
		scalar("circstd", stats.CircStd),
		scalar("entropy", stats.Entropy),
		scalar("kstat", func(x []float64) float64 { return stats.KStat(x, 2) }),
		scalar("kstatvar", func(x []float64) float64 { return stats.KStatVar(x, 2) }),
	}
}

// BasicMetrics mirrors the classic eight-row describe.
func BasicMetrics() []Metric {
	m, _ := Select(DefaultMetrics(), []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"})
	return m
}

// Select picks metrics by name, in the requested order.
func Select(registry []Metric, names []string) ([]Metric, error) {
	byName := make(map[string]Metric, len(registry))
	for _, m := range registry {
		byName[m.Name] = m
	}
	out := make([]Metric, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		m, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, n)
		}
		out = append(out, m)
	}
	return out, nil
}

// Names lists metric names in registry order.
func Names(registry []Metric) []string {
	out := make([]string, len(registry))
	for i, m := range registry {
		out[i] = m.Name
	}
	return out
}
