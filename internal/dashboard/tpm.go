package dashboard

import (
	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/table"
)

// TPMPoint places one player on the performance/value matrix.
type TPMPoint struct {
	Name            string `json:"name,omitempty"`
	Team            string `json:"team,omitempty"`
	WARPercentile   Num    `json:"war_percentile"`
	ValuePercentile Num    `json:"value_percentile"`
	Quadrant        string `json:"quadrant"`
}

// TPMMatrix holds quadrant totals (summing to Players) and the plotted points.
type TPMMatrix struct {
	Players   int             `json:"players"`
	Quadrants []CategoryCount `json:"quadrants"`
	Points    []TPMPoint      `json:"points"`
}

// BuildTPMMatrix collects the TPM quadrant of every eligible record in t.
func BuildTPMMatrix(t *table.Table) (*TPMMatrix, error) {
	if err := metrics.Require(t.Schema, metrics.Performance, metrics.Salary); err != nil {
		return nil, err
	}
	elig := t.Filter(func(r table.Record) bool { return r.Eligible() && r.Derived.TPMCategory != "" })
	out := &TPMMatrix{
		Players:   elig.Len(),
		Quadrants: countCategories(elig, metrics.TPMCategories, func(r table.Record) string { return r.Derived.TPMCategory }),
	}
	for _, r := range elig.Records {
		out.Points = append(out.Points, TPMPoint{
			Name:            r.Name,
			Team:            r.Team,
			WARPercentile:   Num(r.Derived.WARPercentile),
			ValuePercentile: Num(r.Derived.ValuePercentile),
			Quadrant:        r.Derived.TPMCategory,
		})
	}
	return out, nil
}
