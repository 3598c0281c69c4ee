package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrShapiroSampleSize is returned for fewer than three observations or a
// sample with zero range.
var ErrShapiroSampleSize = errors.New("shapiro: need at least 3 distinct observations")

// ShapiroResult holds the Shapiro-Wilk W statistic and its p-value.
type ShapiroResult struct {
	W      float64
	PValue float64
}

// Royston (1992/1995) polynomial approximations.
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
)

func poly(c []float64, x float64) float64 {
	r := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}

// Shapiro runs the Shapiro-Wilk normality test using Royston's
// approximation for the coefficients and the p-value (valid for 3 <= n <= 5000).
func Shapiro(x []float64) (ShapiroResult, error) {
	n := len(x)
	if n < 3 {
		return ShapiroResult{W: math.NaN(), PValue: math.NaN()}, ErrShapiroSampleSize
	}
	xs := sortedCopy(x)
	if xs[n-1]-xs[0] == 0 {
		return ShapiroResult{W: math.NaN(), PValue: math.NaN()}, ErrShapiroSampleSize
	}
	a := shapiroCoefficients(n)

	mean := Mean(xs)
	var num, ssq float64
	for i, v := range xs {
		num += a[i] * v
		d := v - mean
		ssq += d * d
	}
	w := num * num / ssq
	if w > 1 {
		w = 1
	}
	return ShapiroResult{W: w, PValue: shapiroPValue(w, n)}, nil
}

// ShapiroStat returns W or NaN when the test is undefined.
func ShapiroStat(x []float64) float64 {
	r, err := Shapiro(x)
	if err != nil {
		return math.NaN()
	}
	return r.W
}

// ShapiroPValue returns the p-value or NaN when the test is undefined.
func ShapiroPValue(x []float64) float64 {
	r, err := Shapiro(x)
	if err != nil {
		return math.NaN()
	}
	return r.PValue
}

// shapiroCoefficients returns the n antisymmetric weights a_i for sorted data.
func shapiroCoefficients(n int) []float64 {
	a := make([]float64, n)
	if n == 3 {
		a[0], a[2] = -math.Sqrt(0.5), math.Sqrt(0.5)
		return a
	}
	m := make([]float64, n)
	var mm float64
	fn := float64(n)
	for i := 0; i < n; i++ {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (fn + 0.25))
		mm += m[i] * m[i]
	}
	u := 1 / math.Sqrt(fn)
	rsm := math.Sqrt(mm)
	an := poly(swC1, u) + m[n-1]/rsm
	if n > 5 {
		an1 := poly(swC2, u) + m[n-2]/rsm
		phi := (mm - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) / (1 - 2*an*an - 2*an1*an1)
		rphi := math.Sqrt(phi)
		for i := 2; i < n-2; i++ {
			a[i] = m[i] / rphi
		}
		a[0], a[1] = -an, -an1
		a[n-1], a[n-2] = an, an1
		return a
	}
	phi := (mm - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
	rphi := math.Sqrt(phi)
	for i := 1; i < n-1; i++ {
		a[i] = m[i] / rphi
	}
	a[0], a[n-1] = -an, an
	return a
}

func shapiroPValue(w float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return math.Max(p, 0)
	}
	fn := float64(n)
	var z float64
	if n <= 11 {
		gamma := -2.273 + 0.459*fn
		mu := 0.5440 - 0.39978*fn + 0.025054*fn*fn - 0.0006714*fn*fn*fn
		sigma := math.Exp(1.3822 - 0.77857*fn + 0.062767*fn*fn - 0.0020322*fn*fn*fn)
		y := -math.Log(gamma - math.Log1p(-w))
		z = (y - mu) / sigma
	} else {
		ln := math.Log(fn)
		mu := -1.5861 - 0.31082*ln - 0.083751*ln*ln + 0.0038915*ln*ln*ln
		sigma := math.Exp(-0.4803 - 0.082676*ln + 0.0030302*ln*ln)
		z = (math.Log1p(-w) - mu) / sigma
	}
	if math.IsInf(z, -1) {
		return 1
	}
	return distuv.UnitNormal.Survival(z)
}
