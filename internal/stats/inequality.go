package stats

import "slices"

func positiveSorted(values []float64) []float64 {
	var out []float64
	for _, v := range Finite(values) {
		if v > 0 {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// Gini computes the Gini coefficient of the strictly positive values.
// 0 means perfect equality; values approach 1 as one holder concentrates the total.
func Gini(values []float64) float64 {
	sorted := positiveSorted(values)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	var weighted, total float64
	for i, v := range sorted {
		rank := float64(i + 1)
		weighted += (2*rank - float64(n) - 1) * v
		total += v
	}
	return weighted / (float64(n) * total)
}

// LorenzPoint is one vertex of a Lorenz curve.
type LorenzPoint struct {
	Population float64 `json:"population_share"`
	Value      float64 `json:"value_share"`
}

// Lorenz returns the Lorenz curve of the strictly positive values, starting at (0,0)
// and ending at (1,1). An empty input yields nil.
func Lorenz(values []float64) []LorenzPoint {
	sorted := positiveSorted(values)
	n := len(sorted)
	if n == 0 {
		return nil
	}
	total := 0.0
	for _, v := range sorted {
		total += v
	}

	points := make([]LorenzPoint, n+1)
	cum := 0.0
	for i, v := range sorted {
		cum += v
		points[i+1] = LorenzPoint{
			Population: float64(i+1) / float64(n),
			Value:      cum / total,
		}
	}
	return points
}
