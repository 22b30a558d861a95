// Package aggregate groups the player table by team or position.
package aggregate

import (
	"cmp"
	"slices"

	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/table"
)

// Minimum group sizes below which group statistics are too noisy to report.
const (
	DefaultTeamMinPlayers     = 3
	DefaultPositionMinPlayers = 5
)

type group struct {
	key     string
	members []table.Record
}

// groupBy buckets eligible records by key in first-appearance order. Empty keys are skipped.
func groupBy(t *table.Table, key func(table.Record) string) []group {
	var groups []group
	index := map[string]int{}
	for _, r := range t.Records {
		k := key(r)
		if k == "" || !r.Eligible() {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].members = append(groups[i].members, r)
	}
	return groups
}

func (g group) war() []float64 {
	out := make([]float64, len(g.members))
	for i, r := range g.members {
		out[i] = r.WAR
	}
	return out
}

func (g group) salary() []float64 {
	out := make([]float64, len(g.members))
	for i, r := range g.members {
		out[i] = r.Salary
	}
	return out
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Column is a sortable field of an aggregate row.
type Column[T any] struct {
	Number func(T) float64
	Text   func(T) string
}

// sortRows orders rows stably by the named column.
func sortRows[T any](rows []T, columns map[string]Column[T], name string, descending bool) error {
	col, ok := columns[name]
	if !ok {
		return &table.UnknownColumnError{Column: name}
	}
	slices.SortStableFunc(rows, func(a, b T) int {
		var c int
		if col.Text != nil {
			c = cmp.Compare(col.Text(a), col.Text(b))
		} else {
			c = cmp.Compare(col.Number(a), col.Number(b))
		}
		if descending {
			return -c
		}
		return c
	})
	return nil
}

func requireGroups(t *table.Table, by metrics.Capability) error {
	return metrics.Require(t.Schema, by, metrics.Performance, metrics.Salary)
}
