// Package dashboard computes the read-only views served by the presentation adapters.
// Every view works on a copy of the published snapshot table.
package dashboard

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/table"
)

var (
	// ErrUnknownColumn is returned for a column name the table cannot resolve.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidFilter is returned for contradictory or out-of-range view parameters.
	ErrInvalidFilter = errors.New("invalid filter")
)

// DefaultLimit caps player listings when the caller does not choose a limit.
const DefaultLimit = 100

// AllTeams selects every team.
const AllTeams = "all"

// Filter selects, orders and truncates player rows.
type Filter struct {
	Team       string   `json:"team,omitempty"`
	Teams      []string `json:"teams,omitempty"`
	Positions  []string `json:"positions,omitempty"`
	MinWAR     *float64 `json:"min_war,omitempty"`
	MaxWAR     *float64 `json:"max_war,omitempty"`
	MinSalary  *float64 `json:"min_salary,omitempty"`
	MaxSalary  *float64 `json:"max_salary,omitempty"`
	Name       string   `json:"name,omitempty"`
	SortBy     string   `json:"sort_by,omitempty"`
	Descending bool     `json:"descending,omitempty"`
	Limit      int      `json:"limit,omitempty"` // 0 keeps every match
}

func (f Filter) teams() []string {
	var out []string
	if f.Team != "" && !strings.EqualFold(f.Team, AllTeams) {
		out = append(out, f.Team)
	}
	for _, t := range f.Teams {
		if t != "" && !strings.EqualFold(t, AllTeams) {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks the filter against the table it will run on.
func (f Filter) Validate(t *table.Table) error {
	if bad(f.MinWAR) || bad(f.MaxWAR) || bad(f.MinSalary) || bad(f.MaxSalary) {
		return fmt.Errorf("%w: range bounds must be finite numbers", ErrInvalidFilter)
	}
	if f.MinWAR != nil && f.MaxWAR != nil && *f.MinWAR > *f.MaxWAR {
		return fmt.Errorf("%w: min_war %.2f exceeds max_war %.2f", ErrInvalidFilter, *f.MinWAR, *f.MaxWAR)
	}
	if f.MinSalary != nil && f.MaxSalary != nil && *f.MinSalary > *f.MaxSalary {
		return fmt.Errorf("%w: min_salary %.2f exceeds max_salary %.2f", ErrInvalidFilter, *f.MinSalary, *f.MaxSalary)
	}
	if f.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidFilter)
	}
	if len(f.teams()) > 0 {
		if err := metrics.Require(t.Schema, metrics.Team); err != nil {
			return err
		}
	}
	if len(f.Positions) > 0 {
		if err := metrics.Require(t.Schema, metrics.Position); err != nil {
			return err
		}
	}
	if f.Name != "" {
		if err := metrics.Require(t.Schema, metrics.Name); err != nil {
			return err
		}
	}
	if f.MinWAR != nil || f.MaxWAR != nil {
		if err := metrics.Require(t.Schema, metrics.Performance); err != nil {
			return err
		}
	}
	if f.MinSalary != nil || f.MaxSalary != nil {
		if err := metrics.Require(t.Schema, metrics.Salary); err != nil {
			return err
		}
	}
	if f.SortBy != "" && !t.HasColumn(f.SortBy) {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, f.SortBy)
	}
	return nil
}

func bad(p *float64) bool {
	return p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0))
}

// Match reports whether a record passes every selection criterion (sorting and limit aside).
func (f Filter) Match(r table.Record) bool {
	if teams := f.teams(); len(teams) > 0 && !containsFold(teams, r.Team) {
		return false
	}
	if len(f.Positions) > 0 && !containsFold(f.Positions, r.Position) {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.Name)) {
		return false
	}
	if !inRange(r.WAR, f.MinWAR, f.MaxWAR) || !inRange(r.Salary, f.MinSalary, f.MaxSalary) {
		return false
	}
	return true
}

func containsFold(list []string, v string) bool {
	return slices.ContainsFunc(list, func(s string) bool { return strings.EqualFold(s, v) })
}

func inRange(v float64, lo, hi *float64) bool {
	if lo == nil && hi == nil {
		return true
	}
	if math.IsNaN(v) {
		return false
	}
	return (lo == nil || v >= *lo) && (hi == nil || v <= *hi)
}

// Select validates f and returns the matching records as a new table, sorted and truncated.
func Select(t *table.Table, f Filter) (*table.Table, int, error) {
	if err := f.Validate(t); err != nil {
		return nil, 0, err
	}
	out := t.Filter(f.Match)
	matched := out.Len()
	if f.SortBy != "" {
		sorted, err := out.Sorted(f.SortBy, f.Descending)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrUnknownColumn, err)
		}
		out = sorted
	}
	if f.Limit > 0 && out.Len() > f.Limit {
		out.Records = out.Records[:f.Limit]
	}
	return out, matched, nil
}

func numericColumn(t *table.Table, name string) error {
	if name == "" || !t.HasColumn(name) || slices.Contains([]string{table.ColName, table.ColTeam, table.ColPosition}, name) {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return nil
}
