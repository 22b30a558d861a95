package metrics

import (
	"math"

	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"
)

// MERI categories, from most overpaid to most underpaid.
const (
	MERISeverelyOver  = "severely overvalued"
	MERISlightlyOver  = "slightly overvalued"
	MERIFair          = "fairly priced"
	MERISlightlyUnder = "slightly undervalued"
	MERISeverelyUnder = "severely undervalued"
)

// MERICategories lists the MERI labels from most overvalued to most undervalued.
var MERICategories = []string{MERISeverelyOver, MERISlightlyOver, MERIFair, MERISlightlyUnder, MERISeverelyUnder}

// MERICategory buckets a market-efficiency residual by fixed thresholds.
func MERICategory(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case v > 0.5:
		return MERISeverelyOver
	case v > 0.1:
		return MERISlightlyOver
	case v >= -0.1:
		return MERIFair
	case v >= -0.5:
		return MERISlightlyUnder
	default:
		return MERISeverelyUnder
	}
}

// MERI regresses salary on WAR, adjusts the expected salary by the per-position mean residual
// and scores each record's relative residual scaled by ln(1+|WAR|). It returns the fit and the
// position offsets. When WAR has no variance the expected salary is the mean salary.
func MERI(recs []*table.Record, hasPosition bool) (stats.SimpleFit, map[string]float64) {
	fit := stats.SimpleOLS(column(recs, warOf), column(recs, salaryOf))
	meanSalary := stats.Mean(column(recs, salaryOf))

	for _, r := range recs {
		if fit.Degenerate {
			r.Derived.ExpectedSalary = meanSalary
		} else {
			r.Derived.ExpectedSalary = fit.Predict(r.WAR)
		}
	}

	var offsets map[string]float64
	if hasPosition {
		pos := func(r *table.Record) string { return r.Position }
		actual := groupMean(recs, pos, salaryOf)
		expected := groupMean(recs, pos, func(r *table.Record) float64 { return r.Derived.ExpectedSalary })
		offsets = make(map[string]float64, len(actual))
		for p, a := range actual {
			offsets[p] = a - expected[p]
		}
	}

	for _, r := range recs {
		adj := r.Derived.ExpectedSalary + offsets[r.Position]
		r.Derived.ExpectedSalaryAdjusted = adj
		if adj == 0 {
			r.Derived.ResidualPct = math.NaN()
			r.Derived.MERI = math.NaN()
			r.Derived.MERICategory = ""
			continue
		}
		r.Derived.ResidualPct = (r.Salary - adj) / adj
		r.Derived.MERI = r.Derived.ResidualPct * math.Log1p(math.Abs(r.WAR))
		r.Derived.MERICategory = MERICategory(r.Derived.MERI)
	}
	return fit, offsets
}
