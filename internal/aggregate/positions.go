package aggregate

import (
	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"
)

// PositionStats is the positional arbitrage view of one fielding position.
type PositionStats struct {
	Position    string  `json:"position"`
	Players     int     `json:"players"`
	MeanSalary  float64 `json:"mean_salary"`
	MeanWAR     float64 `json:"mean_war"`
	TotalWAR    float64 `json:"total_war"`
	TotalSalary float64 `json:"total_salary"`
	Efficiency  float64 `json:"efficiency"`
	CostPerWAR  float64 `json:"cost_per_war"` // mean salary / mean WAR, 0 when mean WAR is 0
}

// PositionColumns are the sortable PositionStats fields.
var PositionColumns = map[string]Column[PositionStats]{
	"position":     {Text: func(s PositionStats) string { return s.Position }},
	"players":      {Number: func(s PositionStats) float64 { return float64(s.Players) }},
	"mean_salary":  {Number: func(s PositionStats) float64 { return s.MeanSalary }},
	"mean_war":     {Number: func(s PositionStats) float64 { return s.MeanWAR }},
	"total_war":    {Number: func(s PositionStats) float64 { return s.TotalWAR }},
	"total_salary": {Number: func(s PositionStats) float64 { return s.TotalSalary }},
	"efficiency":   {Number: func(s PositionStats) float64 { return s.Efficiency }},
	"cost_per_war": {Number: func(s PositionStats) float64 { return s.CostPerWAR }},
}

// Positions aggregates positions having at least minPlayers eligible members, cheapest
// cost per WAR first.
func Positions(t *table.Table, minPlayers int) ([]PositionStats, error) {
	if err := requireGroups(t, metrics.Position); err != nil {
		return nil, err
	}
	var out []PositionStats
	for _, g := range groupBy(t, func(r table.Record) string { return r.Position }) {
		if len(g.members) < minPlayers {
			continue
		}
		war, salary := g.war(), g.salary()
		s := PositionStats{
			Position:    g.key,
			Players:     len(g.members),
			MeanSalary:  stats.Mean(salary),
			MeanWAR:     stats.Mean(war),
			TotalWAR:    stats.Sum(war),
			TotalSalary: stats.Sum(salary),
		}
		s.Efficiency = ratio(s.TotalWAR, s.TotalSalary)
		s.CostPerWAR = ratio(s.MeanSalary, s.MeanWAR)
		out = append(out, s)
	}
	_ = SortPositions(out, "cost_per_war", false)
	return out, nil
}

// SortPositions orders position rows by a PositionColumns key.
func SortPositions(rows []PositionStats, column string, descending bool) error {
	return sortRows(rows, PositionColumns, column, descending)
}
