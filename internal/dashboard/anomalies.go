package dashboard

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"
)

// Anomaly detection defaults.
const (
	DefaultAnomalyThreshold = 30.0
	DefaultAnomalyMinWAR    = 1.0
)

// AnomalyParams controls which salary residuals count as market anomalies.
type AnomalyParams struct {
	ThresholdPct float64 `json:"threshold_pct"`
	MinWAR       float64 `json:"min_war"`
	Limit        int     `json:"limit,omitempty"`
}

// Anomaly is a player whose salary deviates from the league salary line.
type Anomaly struct {
	PlayerRow
	ExpectedSalary  Num `json:"expected_salary"`
	SalaryResidual  Num `json:"salary_residual"`
	ResidualPercent Num `json:"residual_percent"`
}

// Anomalies lists the undervalued (most negative first) and overvalued (most positive first)
// players among those meeting the WAR floor.
type Anomalies struct {
	ThresholdPct float64         `json:"threshold_pct"`
	MinWAR       float64         `json:"min_war"`
	Analyzed     int             `json:"analyzed"`
	Fit          stats.SimpleFit `json:"salary_fit"`
	Undervalued  []Anomaly       `json:"undervalued"`
	Overvalued   []Anomaly       `json:"overvalued"`
}

// BuildAnomalies compares each salary with the unadjusted league line
// salary = intercept + slope × WAR and flags residuals beyond ±threshold percent.
func BuildAnomalies(t *table.Table, fit stats.SimpleFit, p AnomalyParams) (*Anomalies, error) {
	if err := metrics.Require(t.Schema, metrics.Performance, metrics.Salary); err != nil {
		return nil, err
	}
	if p.ThresholdPct <= 0 || math.IsNaN(p.ThresholdPct) {
		return nil, fmt.Errorf("%w: threshold_pct must be positive", ErrInvalidFilter)
	}
	if math.IsNaN(p.MinWAR) || math.IsInf(p.MinWAR, 0) {
		return nil, fmt.Errorf("%w: min_war must be a finite number", ErrInvalidFilter)
	}

	out := &Anomalies{ThresholdPct: p.ThresholdPct, MinWAR: p.MinWAR, Fit: fit}
	for _, r := range t.Records {
		if !r.Eligible() || r.WAR < p.MinWAR {
			continue
		}
		expected := r.Derived.ExpectedSalary
		if math.IsNaN(expected) || expected == 0 {
			continue
		}
		out.Analyzed++
		residual := r.Salary - expected
		pct := residual / expected * 100
		a := Anomaly{PlayerRow: Row(r), ExpectedSalary: Num(expected), SalaryResidual: Num(residual), ResidualPercent: Num(pct)}
		switch {
		case pct < -p.ThresholdPct:
			out.Undervalued = append(out.Undervalued, a)
		case pct > p.ThresholdPct:
			out.Overvalued = append(out.Overvalued, a)
		}
	}

	byResidual := func(a, b Anomaly) int { return cmp.Compare(a.ResidualPercent, b.ResidualPercent) }
	slices.SortStableFunc(out.Undervalued, byResidual)
	slices.SortStableFunc(out.Overvalued, func(a, b Anomaly) int { return byResidual(b, a) })
	if p.Limit > 0 {
		out.Undervalued = out.Undervalued[:min(p.Limit, len(out.Undervalued))]
		out.Overvalued = out.Overvalued[:min(p.Limit, len(out.Overvalued))]
	}
	return out, nil
}
