package visuals

import (
	"math"
	"strings"
	"testing"

	"mlbvalue-mcp/internal/aggregate"
	"mlbvalue-mcp/internal/dashboard"
	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/stats"
)

func TestGenerateLorenzChart(t *testing.T) {
	salaries := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 55}
	ineq := &dashboard.Inequality{Scope: "league", Gini: stats.Gini(salaries), Lorenz: stats.Lorenz(salaries)}
	got := GenerateLorenzChart(ineq)

	if !strings.HasPrefix(got, "```mermaid\nxychart-beta\n") || !strings.HasSuffix(got, "```") {
		t.Fatalf("not a mermaid block:\n%s", got)
	}
	if !strings.Contains(got, "line [0.0, 1.0, 3.0, 6.0, 10.0, 15.0, 21.0, 28.0, 36.0, 45.0, 100.0]") {
		t.Errorf("unexpected curve:\n%s", got)
	}
	if !strings.Contains(got, "line [0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100]") {
		t.Errorf("missing equality line:\n%s", got)
	}
	if GenerateLorenzChart(&dashboard.Inequality{}) != "" {
		t.Error("empty curve should render nothing")
	}
}

func TestGenerateTPMChart(t *testing.T) {
	m := &dashboard.TPMMatrix{Points: []dashboard.TPMPoint{
		{Name: "Judge: \"AJ\"", WARPercentile: 95, ValuePercentile: 40, Quadrant: metrics.TPMPremiumStar},
		{Name: "Ghost", WARPercentile: dashboard.Num(math.NaN()), ValuePercentile: 10},
	}}
	got := GenerateTPMChart(m)
	if !strings.Contains(got, "quadrantChart") || !strings.Contains(got, "quadrant-4 premium star") {
		t.Fatalf("chart:\n%s", got)
	}
	if !strings.Contains(got, "Judge  'AJ': [0.95, 0.40]") {
		t.Errorf("point label not sanitized:\n%s", got)
	}
	if strings.Contains(got, "Ghost") {
		t.Error("points without percentiles should be skipped")
	}
}

func TestBarCharts(t *testing.T) {
	psi := GenerateTeamPSIChart([]metrics.PSIResult{{Group: "TBR", PSI: 2.4}, {Group: "NYY", PSI: -1.2}})
	if !strings.Contains(psi, "x-axis [\"TBR\", \"NYY\"]") || !strings.Contains(psi, "bar [2.40, -1.20]") {
		t.Errorf("psi chart:\n%s", psi)
	}
	if !strings.Contains(psi, "y-axis \"PSI\" -2 --> 3") {
		t.Errorf("psi axis should span negatives:\n%s", psi)
	}

	pos := GeneratePositionCostChart([]aggregate.PositionStats{{Position: "SS", CostPerWAR: 1.5}})
	if !strings.Contains(pos, "Cost per WAR by Position") || !strings.Contains(pos, "bar [1.50]") {
		t.Errorf("position chart:\n%s", pos)
	}

	if GenerateTeamEfficiencyChart(nil) != "" {
		t.Error("empty input should render nothing")
	}

	cats := GenerateCategoryChart("WVPI Categories", []dashboard.CategoryCount{{Category: metrics.WVPIElite, Count: 3}})
	if !strings.Contains(cats, "\"elite\"") || !strings.Contains(cats, "bar [3.00]") {
		t.Errorf("category chart:\n%s", cats)
	}
}

func TestGenerateLeadersChart(t *testing.T) {
	l := &dashboard.Leaders{Metric: "WVPI", Players: []dashboard.PlayerRow{
		{Name: "A", WVPI: 80},
		{Name: "B", WVPI: dashboard.Num(math.NaN())},
	}}
	got := GenerateLeadersChart(l)
	if !strings.Contains(got, "x-axis [\"A\"]") {
		t.Errorf("leaders chart:\n%s", got)
	}
}
