package dashboard

import (
	"fmt"
	"strings"

	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"
)

// MaxCompare is the largest number of players a comparison accepts.
const MaxCompare = 5

// RadarMetrics are the columns scored in a comparison, when present.
var RadarMetrics = []string{table.ColSalary, table.ColWAR, table.ColValueRatio, "HR", "RBI", table.ColWVPI, table.ColRAV}

// ComparedPlayer is one player with league percentiles for each radar metric.
type ComparedPlayer struct {
	PlayerRow
	Percentiles map[string]float64 `json:"percentiles"`
}

// Comparison is a side-by-side view of up to MaxCompare players.
type Comparison struct {
	Metrics []string         `json:"metrics"`
	Players []ComparedPlayer `json:"players"`
	Missing []string         `json:"missing,omitempty"`
}

// BuildComparison looks players up by name (exact, else unique substring) and scores them
// against the whole population of t. Names that match nobody are listed in Missing.
func BuildComparison(t *table.Table, names []string) (*Comparison, error) {
	if err := metrics.Require(t.Schema, metrics.Name); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one player name is required", ErrInvalidFilter)
	}
	if len(names) > MaxCompare {
		return nil, fmt.Errorf("%w: at most %d players can be compared, got %d", ErrInvalidFilter, MaxCompare, len(names))
	}

	out := &Comparison{}
	columns := map[string][]float64{}
	for _, m := range RadarMetrics {
		if col, err := t.Column(m); err == nil {
			out.Metrics = append(out.Metrics, m)
			columns[m] = col
		}
	}

	for _, name := range names {
		r, ok := findPlayer(t, name)
		if !ok {
			out.Missing = append(out.Missing, name)
			continue
		}
		cp := ComparedPlayer{PlayerRow: Row(r), Percentiles: map[string]float64{}}
		for _, m := range out.Metrics {
			v, ok := table.Value(r, m)
			if !ok {
				cp.Percentiles[m] = 0
				continue
			}
			cp.Percentiles[m] = stats.PercentileOfScore(columns[m], v)
		}
		out.Players = append(out.Players, cp)
	}
	return out, nil
}

// findPlayer matches name case-insensitively: an exact match first, otherwise the one
// player whose name contains it. An ambiguous substring matches nobody.
func findPlayer(t *table.Table, name string) (table.Record, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return table.Record{}, false
	}
	for _, r := range t.Records {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	needle := strings.ToLower(name)
	var found table.Record
	hits := 0
	for _, r := range t.Records {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			found = r
			if hits++; hits > 1 {
				return table.Record{}, false
			}
		}
	}
	return found, hits == 1
}
