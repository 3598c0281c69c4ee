package stats

import "math"

// Circular statistics treat values as angles in radians on [0, 2π).

func meanResultant(x []float64) (s, c float64) {
	for _, v := range x {
		s += math.Sin(v)
		c += math.Cos(v)
	}
	n := float64(len(x))
	return s / n, c / n
}

// CircMean is the mean direction, mapped into [0, 2π).
func CircMean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s, c := meanResultant(x)
	res := math.Atan2(s, c)
	if res < 0 {
		res += 2 * math.Pi
	}
	return res
}

// CircVar is 1 - R, where R is the mean resultant length.
func CircVar(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s, c := meanResultant(x)
	return 1 - math.Hypot(s, c)
}

// CircStd is sqrt(-2 ln R).
func CircStd(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s, c := meanResultant(x)
	r := math.Min(1, math.Hypot(s, c))
	return math.Sqrt(-2 * math.Log(r))
}
