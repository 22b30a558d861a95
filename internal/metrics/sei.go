package metrics

import "mlbvalue-mcp/internal/stats"

// SEIResult is the league synchronization-efficiency index and its two factors.
type SEIResult struct {
	Correlation float64 `json:"correlation"`
	Gini        float64 `json:"gini"`
	SEI         float64 `json:"sei"`
}

// SEI combines the WAR/salary correlation with salary equality: ρ × (1 − G).
func SEI(war, salary []float64) SEIResult {
	rho := stats.Pearson(war, salary)
	g := stats.Gini(salary)
	return SEIResult{Correlation: rho, Gini: g, SEI: rho * (1 - g)}
}
