// Package stats implements the per-column aggregations used by the describe
// tables. Inputs never contain NaN (callers drop missing values first);
// functions return NaN when a statistic is undefined for the input.
package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Tail selects the lower or upper IQR fence.
type Tail int

const (
	Lower Tail = iota
	Upper
)

// Count returns the number of values.
func Count(x []float64) float64 { return float64(len(x)) }

// CountZero counts values equal to zero.
func CountZero(x []float64) float64 {
	n := 0
	for _, v := range x {
		if v == 0 {
			n++
		}
	}
	return float64(n)
}

// CountNonZero counts values different from zero.
func CountNonZero(x []float64) float64 { return float64(len(x)) - CountZero(x) }

// CountUnique counts distinct values.
func CountUnique(x []float64) float64 {
	seen := make(map[float64]struct{}, len(x))
	for _, v := range x {
		seen[v] = struct{}{}
	}
	return float64(len(seen))
}

// Sum adds the values.
func Sum(x []float64) float64 { return floats.Sum(x) }

// Mean is the arithmetic mean.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// Median is the 50th percentile.
func Median(x []float64) float64 { return Percentile(x, 50) }

// Min returns the smallest value.
func Min(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Min(x)
}

// Max returns the largest value.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Max(x)
}

// Range is Max - Min.
func Range(x []float64) float64 { return Max(x) - Min(x) }

// Percentile returns the q-th percentile (0..100), interpolating linearly
// between the two closest ranks.
func Percentile(x []float64, q float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return quantile(sortedCopy(x), q/100)
}

// IQR is the 75th minus the 25th percentile.
func IQR(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s := sortedCopy(x)
	return quantile(s, 0.75) - quantile(s, 0.25)
}

// OutlierFence returns Q1 - 1.5*IQR (Lower) or Q3 + 1.5*IQR (Upper).
func OutlierFence(x []float64, tail Tail) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s := sortedCopy(x)
	q1, q3 := quantile(s, 0.25), quantile(s, 0.75)
	iqr := q3 - q1
	if tail == Lower {
		return q1 - 1.5*iqr
	}
	return q3 + 1.5*iqr
}

// CountOutliers counts values strictly beyond the selected fence.
func CountOutliers(x []float64, tail Tail) float64 {
	if len(x) == 0 {
		return 0
	}
	fence := OutlierFence(x, tail)
	n := 0
	for _, v := range x {
		if (tail == Lower && v < fence) || (tail == Upper && v > fence) {
			n++
		}
	}
	return float64(n)
}

// ModeLists returns every most-frequent value in ascending order.
func ModeLists(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	counts := map[float64]int{}
	best := 0
	for _, v := range x {
		counts[v]++
		if counts[v] > best {
			best = counts[v]
		}
	}
	var out []float64
	for v, c := range counts {
		if c == best {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// Mode returns the smallest most-frequent value.
func Mode(x []float64) float64 {
	m := ModeLists(x)
	if len(m) == 0 {
		return math.NaN()
	}
	return m[0]
}

// ModeCount returns how often the mode occurs.
func ModeCount(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := Mode(x)
	n := 0
	for _, v := range x {
		if v == m {
			n++
		}
	}
	return float64(n)
}

// ModeLimits returns the largest (max=true) or smallest of the modes.
func ModeLimits(x []float64, max bool) float64 {
	m := ModeLists(x)
	if len(m) == 0 {
		return math.NaN()
	}
	if max {
		return m[len(m)-1]
	}
	return m[0]
}

// MeanAbsDeviation is mean(|x - mean(x)|).
func MeanAbsDeviation(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	m := stat.Mean(x, nil)
	var s float64
	for _, v := range x {
		s += math.Abs(v - m)
	}
	return s / float64(len(x))
}

// Std is the sample standard deviation (n-1 denominator).
func Std(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// Variance is the population variance (n denominator).
func Variance(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.PopVariance(x, nil)
}

// MedianAbsDeviation is median(|x - median(x)|) with unit scale.
func MedianAbsDeviation(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	mad, err := mstats.MedianAbsoluteDeviationPopulation(x)
	if err != nil {
		return math.NaN()
	}
	return mad
}

// MedianAbsDeviationNorm rescales the MAD to estimate sigma of a normal distribution.
func MedianAbsDeviationNorm(x []float64) float64 {
	return MedianAbsDeviation(x) / distuv.UnitNormal.Quantile(0.75)
}

// CoefficientVariation is std / mean.
func CoefficientVariation(x []float64) float64 {
	return Std(x) / Mean(x)
}

// Skew is the bias-corrected sample skewness (G1). Constant input yields 0.
func Skew(x []float64) float64 {
	if len(x) < 3 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 {
		return 0
	}
	return stat.Skew(x, nil)
}

// Kurt is the bias-corrected excess kurtosis (G2). Constant input yields 0.
func Kurt(x []float64) float64 {
	if len(x) < 4 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 {
		return 0
	}
	return stat.ExKurtosis(x, nil)
}

// Kurtosis is the biased Fisher kurtosis m4/m2^2 - 3.
func Kurtosis(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	m2 := stat.Moment(2, x, nil)
	if m2 == 0 {
		return math.NaN()
	}
	return stat.Moment(4, x, nil)/(m2*m2) - 3
}

// Autocorr is the Pearson correlation between the series and itself shifted by one.
func Autocorr(x []float64) float64 {
	if len(x) < 3 {
		return math.NaN()
	}
	a, b := x[:len(x)-1], x[1:]
	if stat.Variance(a, nil) == 0 || stat.Variance(b, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(a, b, nil)
}

// Entropy is the Shannon entropy (natural log) of x normalised to sum to one.
func Entropy(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	total := floats.Sum(x)
	if total == 0 {
		return math.NaN()
	}
	p := make([]float64, len(x))
	for i, v := range x {
		if v < 0 {
			return math.Inf(-1)
		}
		p[i] = v / total
	}
	return stat.Entropy(p)
}

// ApplyPercent returns sum/count*100; on a 0/1 column it is the share of ones.
func ApplyPercent(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Sum(x) / float64(len(x)) * 100
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := mstats.Round(v, places)
	if err != nil {
		return v
	}
	return r
}

// RoundHalfEven rounds to the given number of decimals, sending ties to the
// even digit the way numpy's round does.
func RoundHalfEven(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}

func sortedCopy(x []float64) []float64 {
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	return cp
}

// quantile interpolates linearly on sorted data (q in 0..1).
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Quantile exposes the interpolating quantile on unsorted data (q in 0..1).
func Quantile(x []float64, q float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return quantile(sortedCopy(x), q)
}
