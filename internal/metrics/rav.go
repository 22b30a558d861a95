package metrics

import (
	"math"

	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"
)

// RAV categories.
const (
	RAVLowRisk  = "low-risk high-return"
	RAVStable   = "stable"
	RAVAverage  = "average"
	RAVHighRisk = "high-risk/below-replacement"
)

// RAVCategories lists the RAV labels from best to worst.
var RAVCategories = []string{RAVLowRisk, RAVStable, RAVAverage, RAVHighRisk}

// RAVCategory buckets a risk-adjusted value.
func RAVCategory(v float64) string {
	switch {
	case v > 2:
		return RAVLowRisk
	case v > 1:
		return RAVStable
	case v > 0:
		return RAVAverage
	default:
		return RAVHighRisk
	}
}

// ReplacementBaseline is the mean WAR of the records paid at or below the salary p25.
func ReplacementBaseline(recs []*table.Record) float64 {
	p25 := stats.Quantile(column(recs, salaryOf), 0.25)
	var cheap []float64
	for _, r := range recs {
		if r.Salary <= p25 {
			cheap = append(cheap, r.WAR)
		}
	}
	return stats.Mean(cheap)
}

// RAV fills volatility, RAV and its category and returns the replacement baseline.
//
// Volatility is the absolute distance from the mean WAR of same-position peers, so a position
// with a single member yields 0. Records without a position (or every record when the table has
// no position column) fall back to the population WAR standard deviation, or 1 when that is 0.
func RAV(recs []*table.Record, hasPosition bool) float64 {
	baseline := ReplacementBaseline(recs)
	median := stats.Median(column(recs, salaryOf))

	fallback := stats.SampleStdDev(column(recs, warOf))
	if fallback == 0 || math.IsNaN(fallback) {
		fallback = 1
	}

	var peerMean map[string]float64
	if hasPosition {
		peerMean = groupMean(recs, func(r *table.Record) string { return r.Position }, warOf)
	}

	for _, r := range recs {
		vol := fallback
		if m, ok := peerMean[r.Position]; ok && r.Position != "" {
			vol = math.Abs(r.WAR - m)
		}
		r.Derived.Volatility = vol
		r.Derived.RAV = (r.WAR - baseline) / (vol + 1) * (median / r.Salary)
		r.Derived.RAVCategory = RAVCategory(r.Derived.RAV)
	}
	return baseline
}

func groupMean(recs []*table.Record, key func(*table.Record) string, get func(*table.Record) float64) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range recs {
		k := key(r)
		if k == "" {
			continue
		}
		sums[k] += get(r)
		counts[k]++
	}
	out := make(map[string]float64, len(sums))
	for k, s := range sums {
		out[k] = s / float64(counts[k])
	}
	return out
}
