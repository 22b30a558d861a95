package metrics

import "mlbvalue-mcp/internal/stats"

// PSI categories.
const (
	PSIExcellent = "excellent"
	PSIGood      = "good"
	PSIAverage   = "average"
	PSIPoor      = "poor"
	PSIBad       = "bad"
)

// PSICategories lists the PSI labels from best to worst.
var PSICategories = []string{PSIExcellent, PSIGood, PSIAverage, PSIPoor, PSIBad}

// PSICategory buckets a portfolio index by fixed thresholds.
func PSICategory(v float64) string {
	switch {
	case v > 1.5:
		return PSIExcellent
	case v > 0.5:
		return PSIGood
	case v > -0.5:
		return PSIAverage
	case v > -1.5:
		return PSIPoor
	default:
		return PSIBad
	}
}

// PSIResult is the portfolio Sharpe-style index of one group of players.
type PSIResult struct {
	Group       string  `json:"group"`
	Players     int     `json:"players"`
	TotalWAR    float64 `json:"total_war"`
	TotalSalary float64 `json:"total_salary"`
	Expected    float64 `json:"expected_war"`
	Excess      float64 `json:"excess_war"`
	Risk        float64 `json:"risk"`
	PSI         float64 `json:"psi"`
	Category    string  `json:"category"`
	// RiskUndefined is set when the group is too small for a standard deviation and Risk
	// holds the substitute value 1.
	RiskUndefined bool `json:"risk_undefined,omitempty"`
}

// PSI scores a group from its members' WAR and salaries against the league efficiency.
func PSI(group string, war, salary []float64, leagueEfficiency float64) PSIResult {
	res := PSIResult{Group: group, Players: len(war)}
	res.TotalWAR = stats.Sum(war)
	res.TotalSalary = stats.Sum(salary)
	res.Expected = res.TotalSalary * leagueEfficiency
	res.Excess = res.TotalWAR - res.Expected

	if len(stats.Finite(war)) < 2 {
		res.Risk = 1
		res.RiskUndefined = true
	} else {
		res.Risk = stats.SampleStdDev(war)
	}
	if res.Risk > 0 {
		res.PSI = res.Excess / res.Risk
	}
	res.Category = PSICategory(res.PSI)
	return res
}
