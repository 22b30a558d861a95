package dashboard

import (
	"fmt"
	"strings"

	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"
)

// Inequality is the salary concentration of a team or of the whole league.
type Inequality struct {
	Scope   string              `json:"scope"`
	Players int                 `json:"players"`
	Gini    float64             `json:"gini"`
	Lorenz  []stats.LorenzPoint `json:"lorenz"`
	// TopDecileShare is the share of payroll earned by the best-paid tenth of players.
	TopDecileShare float64 `json:"top_decile_share"`
}

// BuildInequality computes Gini and the Lorenz curve of positive salaries, for one team
// when team is set.
func BuildInequality(t *table.Table, team string) (*Inequality, error) {
	if err := metrics.Require(t.Schema, metrics.Salary); err != nil {
		return nil, err
	}
	scope := "league"
	if team != "" && !strings.EqualFold(team, AllTeams) {
		if err := metrics.Require(t.Schema, metrics.Team); err != nil {
			return nil, err
		}
		scope = team
		t = t.Filter(func(r table.Record) bool { return strings.EqualFold(r.Team, team) })
		if t.Len() == 0 {
			return nil, fmt.Errorf("%w: no players for team %q", ErrInvalidFilter, team)
		}
	}

	salary, _ := t.Column(table.ColSalary)
	lorenz := stats.Lorenz(salary)
	out := &Inequality{
		Scope:   scope,
		Players: len(lorenz) - 1,
		Gini:    stats.Gini(salary),
		Lorenz:  lorenz,
	}
	if out.Players < 0 {
		out.Players = 0
	}
	if n := len(lorenz); n > 1 {
		// The curve point at 90% of the population gives the bottom 90% share.
		cut := int(float64(n-1) * 0.9)
		out.TopDecileShare = 1 - lorenz[cut].Value
	}
	return out, nil
}
