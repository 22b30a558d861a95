package aggregate

import (
	"slices"

	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"
)

// TeamStats summarizes one club's payroll and production.
type TeamStats struct {
	Team        string  `json:"team"`
	Players     int     `json:"players"`
	TotalWAR    float64 `json:"total_war"`
	MeanWAR     float64 `json:"mean_war"`
	TotalSalary float64 `json:"total_salary"`
	MeanSalary  float64 `json:"mean_salary"`
	Efficiency  float64 `json:"efficiency"` // WAR per million
}

// TeamColumns are the sortable TeamStats fields.
var TeamColumns = map[string]Column[TeamStats]{
	"team":         {Text: func(s TeamStats) string { return s.Team }},
	"players":      {Number: func(s TeamStats) float64 { return float64(s.Players) }},
	"total_war":    {Number: func(s TeamStats) float64 { return s.TotalWAR }},
	"mean_war":     {Number: func(s TeamStats) float64 { return s.MeanWAR }},
	"total_salary": {Number: func(s TeamStats) float64 { return s.TotalSalary }},
	"mean_salary":  {Number: func(s TeamStats) float64 { return s.MeanSalary }},
	"efficiency":   {Number: func(s TeamStats) float64 { return s.Efficiency }},
}

// Teams aggregates eligible records per team in first-appearance order. A non-empty
// teams list restricts the output to those clubs.
func Teams(t *table.Table, teams []string) ([]TeamStats, error) {
	if err := requireGroups(t, metrics.Team); err != nil {
		return nil, err
	}
	var out []TeamStats
	for _, g := range groupBy(t, func(r table.Record) string { return r.Team }) {
		if len(teams) > 0 && !slices.Contains(teams, g.key) {
			continue
		}
		war, salary := g.war(), g.salary()
		s := TeamStats{
			Team:        g.key,
			Players:     len(g.members),
			TotalWAR:    stats.Sum(war),
			MeanWAR:     stats.Mean(war),
			TotalSalary: stats.Sum(salary),
			MeanSalary:  stats.Mean(salary),
		}
		s.Efficiency = ratio(s.TotalWAR, s.TotalSalary)
		out = append(out, s)
	}
	return out, nil
}

// SortTeams orders team rows by a TeamColumns key; ties keep their current order.
func SortTeams(rows []TeamStats, column string, descending bool) error {
	return sortRows(rows, TeamColumns, column, descending)
}

// PSIColumns are the sortable PSIResult fields.
var PSIColumns = map[string]Column[metrics.PSIResult]{
	"team":         {Text: func(r metrics.PSIResult) string { return r.Group }},
	"players":      {Number: func(r metrics.PSIResult) float64 { return float64(r.Players) }},
	"total_war":    {Number: func(r metrics.PSIResult) float64 { return r.TotalWAR }},
	"total_salary": {Number: func(r metrics.PSIResult) float64 { return r.TotalSalary }},
	"excess_war":   {Number: func(r metrics.PSIResult) float64 { return r.Excess }},
	"risk":         {Number: func(r metrics.PSIResult) float64 { return r.Risk }},
	"psi":          {Number: func(r metrics.PSIResult) float64 { return r.PSI }},
}

// TeamPSI scores every team with at least minPlayers eligible members, best PSI first.
func TeamPSI(t *table.Table, leagueEfficiency float64, minPlayers int) ([]metrics.PSIResult, error) {
	if err := requireGroups(t, metrics.Team); err != nil {
		return nil, err
	}
	var out []metrics.PSIResult
	for _, g := range groupBy(t, func(r table.Record) string { return r.Team }) {
		if len(g.members) < minPlayers {
			continue
		}
		out = append(out, metrics.PSI(g.key, g.war(), g.salary(), leagueEfficiency))
	}
	_ = SortPSI(out, "psi", true)
	return out, nil
}

// SortPSI orders PSI rows by a PSIColumns key.
func SortPSI(rows []metrics.PSIResult, column string, descending bool) error {
	return sortRows(rows, PSIColumns, column, descending)
}
