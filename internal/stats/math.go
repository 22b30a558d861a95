package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Finite returns the finite values of a column, dropping NaN/Inf cells.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Mean returns the arithmetic mean of the finite values, 0 for an empty input.
func Mean(values []float64) float64 {
	vals := Finite(values)
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

// Sum returns the sum of the finite values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range Finite(values) {
		total += v
	}
	return total
}

// Max returns the largest finite value and false when there is none.
func Max(values []float64) (float64, bool) {
	vals := Finite(values)
	if len(vals) == 0 {
		return 0, false
	}
	return slices.Max(vals), true
}

// SampleStdDev returns the n-1 standard deviation; 0 when fewer than two values exist.
func SampleStdDev(values []float64) float64 {
	vals := Finite(values)
	if len(vals) < 2 {
		return 0
	}
	return stat.StdDev(vals, nil)
}

// Median returns the middle value of the finite values.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Quantile returns the q-th quantile (0 <= q <= 1) using linear interpolation between
// order statistics. NaN cells are ignored; an empty input yields 0.
func Quantile(values []float64, q float64) float64 {
	temp := Finite(values)
	if len(temp) == 0 {
		return 0
	}
	slices.Sort(temp)
	return quantileSorted(temp, q)
}

// Quantiles evaluates several quantiles with a single sort.
func Quantiles(values []float64, qs ...float64) []float64 {
	temp := Finite(values)
	out := make([]float64, len(qs))
	if len(temp) == 0 {
		return out
	}
	slices.Sort(temp)
	for i, q := range qs {
		out[i] = quantileSorted(temp, q)
	}
	return out
}

func quantileSorted(sorted []float64, q float64) float64 {
	q = math.Max(0, math.Min(1, q))
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Pearson returns the correlation of the pairs where both sides are finite.
// It returns 0 when fewer than two pairs exist or either side has zero variance.
func Pearson(x, y []float64) float64 {
	xs, ys := Pairs(x, y)
	if len(xs) < 2 {
		return 0
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// Pairs keeps the positions where both x and y are finite.
func Pairs(x, y []float64) ([]float64, []float64) {
	n := min(len(x), len(y))
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}
