package stats

import (
	"cmp"
	"math"
	"slices"
)

// PercentileRank ranks each finite value among all finite values of the column and scales
// the rank to 0-100. Ties receive their average rank. Missing cells stay NaN.
//
// The scale is rank/n*100, so the smallest of three distinct values is 33.3 and the largest 100.
func PercentileRank(values []float64) []float64 {
	out := make([]float64, len(values))
	idx := make([]int, 0, len(values))
	for i, v := range values {
		out[i] = math.NaN()
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			idx = append(idx, i)
		}
	}
	n := len(idx)
	if n == 0 {
		return out
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(values[a], values[b]) })

	for start := 0; start < n; {
		end := start
		for end+1 < n && values[idx[end+1]] == values[idx[start]] {
			end++
		}
		// 1-based ranks start+1..end+1 share their mean.
		avg := float64(start+end+2) / 2
		for k := start; k <= end; k++ {
			out[idx[k]] = avg / float64(n) * 100
		}
		start = end + 1
	}
	return out
}

// PercentileOfScore returns the percentile (0-100) of score relative to the finite values,
// averaging the strict and weak percentages when the score is tied.
func PercentileOfScore(values []float64, score float64) float64 {
	vals := Finite(values)
	n := len(vals)
	if n == 0 || math.IsNaN(score) {
		return 0
	}
	left, right := 0, 0
	for _, v := range vals {
		if v < score {
			left++
		}
		if v <= score {
			right++
		}
	}
	plus := 0
	if right > left {
		plus = 1
	}
	return float64(left+right+plus) * 50 / float64(n)
}

// QuartileLabels is the default ordered label set for quartile bucketing.
var QuartileLabels = [4]string{"low", "mid-low", "mid-high", "high"}

// QuartileBuckets assigns each finite value one of four labels (ordered low to high) using the
// 25th/50th/75th percentile cut points of the column. Bins are right-inclusive. Missing cells
// receive an empty label.
func QuartileBuckets(values []float64, labels [4]string) []string {
	out := make([]string, len(values))
	cuts := Quantiles(values, 0.25, 0.5, 0.75)
	if len(Finite(values)) == 0 {
		return out
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		switch {
		case v <= cuts[0]:
			out[i] = labels[0]
		case v <= cuts[1]:
			out[i] = labels[1]
		case v <= cuts[2]:
			out[i] = labels[2]
		default:
			out[i] = labels[3]
		}
	}
	return out
}
