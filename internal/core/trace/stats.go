package trace

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Percentile returns the p-th percentile (0..100) of x using linear
// interpolation between closest ranks: rank = p/100 * (n-1)
// x is copied, not reordered. Empty input yields NaN
func Percentile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s := slices.Clone(x)
	slices.Sort(s)
	return percentileSorted(s, p)
}

func percentileSorted(s []float64, p float64) float64 {
	n := len(s)
	if n == 1 {
		return s[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	frac := rank - float64(lo)
	if lo == hi || frac == 0 {
		return s[lo]
	}
	return s[lo] + (s[hi]-s[lo])*frac
}

// Median of x; the mean of the two middle values for even lengths
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	s := slices.Clone(x)
	slices.Sort(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// Max of x; NaN when empty
func Max(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Max(x)
}

// Min of x; NaN when empty
func Min(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Min(x)
}
