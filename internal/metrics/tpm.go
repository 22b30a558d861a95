package metrics

import "mlbvalue-mcp/internal/table"

// TPM quadrants.
const (
	TPMStarValue   = "star value"
	TPMPremiumStar = "premium star"
	TPMRisingValue = "rising value"
	TPMDeadweight  = "deadweight"
)

// TPMCategories lists the quadrants in matrix reading order.
var TPMCategories = []string{TPMStarValue, TPMPremiumStar, TPMRisingValue, TPMDeadweight}

// TPMQuadrant classifies a record by its WAR and value-ratio percentiles (split at 50).
func TPMQuadrant(warPct, valuePct float64) string {
	highWAR, highValue := warPct >= 50, valuePct >= 50
	switch {
	case highWAR && highValue:
		return TPMStarValue
	case highWAR:
		return TPMPremiumStar
	case highValue:
		return TPMRisingValue
	default:
		return TPMDeadweight
	}
}

// TPM assigns the quadrant of every record. Percentiles must already be filled.
func TPM(recs []*table.Record) {
	for _, r := range recs {
		r.Derived.TPMCategory = TPMQuadrant(r.Derived.WARPercentile, r.Derived.ValuePercentile)
	}
}
