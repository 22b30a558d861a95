package dashboard

import (
	"fmt"
	"slices"
	"strings"

	"mlbvalue-mcp/internal/table"
)

// DefaultLeaders is the size of a leader board.
const DefaultLeaders = 20

// LeaderMetrics are the columns a leader board can rank.
var LeaderMetrics = []string{table.ColWVPI, table.ColRAV, table.ColMERI, table.ColValueRatio}

// Leaders is a ranked list of players for one metric.
type Leaders struct {
	Metric    string      `json:"metric"`
	Ascending bool        `json:"ascending"`
	Players   []PlayerRow `json:"players"`
}

// BuildLeaders ranks eligible records by metric. Descending boards list the best first.
// For MERI the descending board holds only overvalued contracts (MERI > 0) and the ascending
// board only undervalued ones (MERI < 0); value-ratio boards consider positive WAR only.
func BuildLeaders(t *table.Table, metric string, n int, ascending bool) (*Leaders, error) {
	metric = canonicalMetric(metric)
	if !slices.Contains(LeaderMetrics, metric) || !t.HasColumn(metric) {
		return nil, fmt.Errorf("%w: %s (want one of %s)", ErrUnknownColumn, metric, strings.Join(LeaderMetrics, ", "))
	}
	if n <= 0 {
		n = DefaultLeaders
	}

	pool := t.Filter(func(r table.Record) bool {
		v, ok := table.Value(r, metric)
		if !ok || !r.Eligible() {
			return false
		}
		switch metric {
		case table.ColMERI:
			if ascending {
				return v < 0
			}
			return v > 0
		case table.ColValueRatio:
			return r.WAR > 0
		}
		return true
	})
	sorted, err := pool.Sorted(metric, !ascending)
	if err != nil {
		return nil, err
	}
	if sorted.Len() > n {
		sorted.Records = sorted.Records[:n]
	}
	return &Leaders{Metric: metric, Ascending: ascending, Players: Rows(sorted)}, nil
}

func canonicalMetric(m string) string {
	for _, c := range LeaderMetrics {
		if strings.EqualFold(c, m) {
			return c
		}
	}
	return m
}
