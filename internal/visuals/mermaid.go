package visuals

import (
	"fmt"
	"math"
	"strings"

	"mlbvalue-mcp/internal/aggregate"
	"mlbvalue-mcp/internal/dashboard"
	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/table"
)

// maxBars keeps text charts readable inside a tool response.
const maxBars = 20

// maxQuadrantPoints bounds the number of labelled players on the TPM matrix.
const maxQuadrantPoints = 40

func label(s string) string {
	r := strings.NewReplacer("\"", "'", ":", " ", "[", "(", "]", ")", "\n", " ")
	return r.Replace(s)
}

// barChart renders an xychart-beta bar chart. The y-axis always includes zero.
func barChart(title, yLabel string, labels []string, values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := 0.0, 0.0
	var quoted, vals []string
	for i, v := range values {
		quoted = append(quoted, fmt.Sprintf("\"%s\"", label(labels[i])))
		vals = append(vals, fmt.Sprintf("%.2f", v))
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(quoted, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"%s\" %s --> %s\n", yLabel, axis(lo, math.Floor), axis(hi, math.Ceil)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(vals, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// axis pads a bound by 10% away from zero and rounds it outward.
func axis(v float64, round func(float64) float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%d", int(round(v*1.1)))
}

// GenerateLorenzChart plots the salary Lorenz curve at every decile against the equality line.
func GenerateLorenzChart(ineq *dashboard.Inequality) string {
	if ineq == nil || len(ineq.Lorenz) < 2 {
		return ""
	}
	n := len(ineq.Lorenz) - 1
	var labels, curve, equality []string
	for d := 0; d <= 10; d++ {
		idx := int(math.Round(float64(n) * float64(d) / 10))
		p := ineq.Lorenz[idx]
		labels = append(labels, fmt.Sprintf("\"%d%%\"", d*10))
		curve = append(curve, fmt.Sprintf("%.1f", p.Value*100))
		equality = append(equality, fmt.Sprintf("%d", d*10))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Salary Lorenz Curve, %s (Gini %.3f)\"\n", label(ineq.Scope), ineq.Gini))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Cumulative Salary Share (%)\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(curve, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(equality, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTPMChart draws the two-factor performance matrix as a quadrant chart.
// Only the first maxQuadrantPoints players are labelled.
func GenerateTPMChart(m *dashboard.TPMMatrix) string {
	if m == nil || len(m.Points) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("quadrantChart\n")
	sb.WriteString("    title Two-Factor Performance Matrix\n")
	sb.WriteString("    x-axis Low WAR --> High WAR\n")
	sb.WriteString("    y-axis Low Value --> High Value\n")
	sb.WriteString(fmt.Sprintf("    quadrant-1 %s\n", metrics.TPMStarValue))
	sb.WriteString(fmt.Sprintf("    quadrant-2 %s\n", metrics.TPMRisingValue))
	sb.WriteString(fmt.Sprintf("    quadrant-3 %s\n", metrics.TPMDeadweight))
	sb.WriteString(fmt.Sprintf("    quadrant-4 %s\n", metrics.TPMPremiumStar))
	for i, p := range m.Points {
		if i == maxQuadrantPoints {
			break
		}
		if !p.WARPercentile.Valid() || !p.ValuePercentile.Valid() {
			continue
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		sb.WriteString(fmt.Sprintf("    %s: [%.2f, %.2f]\n", label(name),
			float64(p.WARPercentile)/100, float64(p.ValuePercentile)/100))
	}
	sb.WriteString("```")
	return sb.String()
}

// GeneratePositionCostChart shows the price of one WAR per position.
func GeneratePositionCostChart(rows []aggregate.PositionStats) string {
	var labels []string
	var values []float64
	for i, r := range rows {
		if i == maxBars {
			break
		}
		labels = append(labels, r.Position)
		values = append(values, r.CostPerWAR)
	}
	return barChart("Cost per WAR by Position", "Salary ($M) per WAR", labels, values)
}

// GenerateTeamPSIChart shows each team's portfolio index.
func GenerateTeamPSIChart(rows []metrics.PSIResult) string {
	var labels []string
	var values []float64
	for i, r := range rows {
		if i == maxBars {
			break
		}
		labels = append(labels, r.Group)
		values = append(values, r.PSI)
	}
	return barChart("Team Portfolio Sharpe Index", "PSI", labels, values)
}

// GenerateTeamEfficiencyChart shows WAR bought per million for each team.
func GenerateTeamEfficiencyChart(rows []aggregate.TeamStats) string {
	var labels []string
	var values []float64
	for i, r := range rows {
		if i == maxBars {
			break
		}
		labels = append(labels, r.Team)
		values = append(values, r.Efficiency)
	}
	return barChart("Team Payroll Efficiency", "WAR per $M", labels, values)
}

// GenerateCategoryChart shows how many players fall into each category of a metric.
func GenerateCategoryChart(title string, counts []dashboard.CategoryCount) string {
	var labels []string
	var values []float64
	for _, c := range counts {
		labels = append(labels, c.Category)
		values = append(values, float64(c.Count))
	}
	return barChart(title, "Players", labels, values)
}

// GenerateLeadersChart shows a leader board as bars.
func GenerateLeadersChart(l *dashboard.Leaders) string {
	if l == nil {
		return ""
	}
	var labels []string
	var values []float64
	for i, p := range l.Players {
		if i == maxBars {
			break
		}
		v, ok := leaderValue(p, l.Metric)
		if !ok {
			continue
		}
		labels = append(labels, p.Name)
		values = append(values, v)
	}
	return barChart(fmt.Sprintf("Top %s", l.Metric), l.Metric, labels, values)
}

func leaderValue(p dashboard.PlayerRow, metric string) (float64, bool) {
	var n dashboard.Num
	switch metric {
	case table.ColWVPI:
		n = p.WVPI
	case table.ColRAV:
		n = p.RAV
	case table.ColMERI:
		n = p.MERI
	case table.ColValueRatio:
		n = p.ValueRatio
	default:
		return 0, false
	}
	return float64(n), n.Valid()
}
