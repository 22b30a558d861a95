package metrics

import (
	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"
)

// WVPI categories, best first.
const (
	WVPIElite        = "elite"
	WVPIPremium      = "premium"
	WVPIAverage      = "average"
	WVPIBelowAverage = "below-average"
	WVPIProblem      = "problem contract"
)

// WVPICategories lists the WVPI labels from best to worst.
var WVPICategories = []string{WVPIElite, WVPIPremium, WVPIAverage, WVPIBelowAverage, WVPIProblem}

const (
	wvpiWeightWAR       = 0.35
	wvpiWeightRatio     = 0.30
	wvpiWeightWARPct    = 0.20
	wvpiWeightSalaryPct = 0.15
)

// WVPIThresholds are the population's own WVPI quantiles used for bucketing.
type WVPIThresholds struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// Category buckets a WVPI score; bins are right-inclusive.
func (th WVPIThresholds) Category(v float64) string {
	switch {
	case v > th.P90:
		return WVPIElite
	case v > th.P75:
		return WVPIPremium
	case v > th.P50:
		return WVPIAverage
	case v > th.P25:
		return WVPIBelowAverage
	default:
		return WVPIProblem
	}
}

// WVPI scores each record and assigns its category. Percentiles must already be filled.
func WVPI(recs []*table.Record) WVPIThresholds {
	maxWAR, _ := stats.Max(column(recs, warOf))
	maxVR, _ := stats.Max(column(recs, ratioOf))

	scores := make([]float64, len(recs))
	for i, r := range recs {
		r.Derived.WARNorm = normalize(r.WAR, maxWAR)
		r.Derived.VRNorm = normalize(r.Derived.ValueRatio, maxVR)
		r.Derived.WVPI = wvpiWeightWAR*r.Derived.WARNorm +
			wvpiWeightRatio*r.Derived.VRNorm +
			wvpiWeightWARPct*r.Derived.WARPercentile +
			wvpiWeightSalaryPct*(100-r.Derived.SalaryPercentile)
		scores[i] = r.Derived.WVPI
	}

	q := stats.Quantiles(scores, 0.25, 0.5, 0.75, 0.9)
	th := WVPIThresholds{P25: q[0], P50: q[1], P75: q[2], P90: q[3]}
	for _, r := range recs {
		r.Derived.WVPICategory = th.Category(r.Derived.WVPI)
	}
	return th
}

// normalize scales v against the column maximum onto 0-100; 0 when the maximum is not positive.
func normalize(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max * 100
}
