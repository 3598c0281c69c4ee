package stats

import "math"

// KStat returns the n-th k-statistic (1 <= n <= 4), the unique symmetric
// unbiased estimator of the n-th cumulant.
func KStat(x []float64, n int) float64 {
	if n < 1 || n > 4 || len(x) < n {
		return math.NaN()
	}
	N := float64(len(x))
	var s1, s2, s3, s4 float64
	for _, v := range x {
		v2 := v * v
		s1 += v
		s2 += v2
		s3 += v2 * v
		s4 += v2 * v2
	}
	switch n {
	case 1:
		return s1 / N
	case 2:
		if N < 2 {
			return math.NaN()
		}
		return (N*s2 - s1*s1) / (N * (N - 1))
	case 3:
		if N < 3 {
			return math.NaN()
		}
		return (2*s1*s1*s1 - 3*N*s1*s2 + N*N*s3) / (N * (N - 1) * (N - 2))
	default:
		if N < 4 {
			return math.NaN()
		}
		num := -6*s1*s1*s1*s1 + 12*N*s1*s1*s2 - 3*N*(N-1)*s2*s2 - 4*N*(N+1)*s1*s3 + N*N*(N+1)*s4
		return num / (N * (N - 1) * (N - 2) * (N - 3))
	}
}

// KStatVar returns an unbiased estimate of the variance of the n-th
// k-statistic (n = 1 or 2).
func KStatVar(x []float64, n int) float64 {
	N := float64(len(x))
	switch n {
	case 1:
		return KStat(x, 2) / N
	case 2:
		k2 := KStat(x, 2)
		k4 := KStat(x, 4)
		return (2*N*k2*k2 + (N-1)*k4) / (N * (N + 1))
	}
	return math.NaN()
}
