package dashboard

import (
	"math"
	"strconv"

	"mlbvalue-mcp/internal/table"
)

// Num is a float that encodes missing or non-finite values as JSON null.
type Num float64

// MarshalJSON implements json.Marshaler.
func (n Num) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// Valid reports whether the value is present.
func (n Num) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// PlayerRow is the wire form of one record.
type PlayerRow struct {
	Name     string `json:"name,omitempty"`
	Team     string `json:"team,omitempty"`
	Position string `json:"position,omitempty"`
	WAR      Num    `json:"war"`
	Salary   Num    `json:"salary_millions"`

	ValueRatio       Num `json:"value_ratio"`
	WARPercentile    Num `json:"war_percentile"`
	SalaryPercentile Num `json:"salary_percentile"`
	ValuePercentile  Num `json:"value_percentile"`

	WVPI           Num    `json:"wvpi"`
	WVPICategory   string `json:"wvpi_category,omitempty"`
	RAV            Num    `json:"rav"`
	RAVCategory    string `json:"rav_category,omitempty"`
	MERI           Num    `json:"meri"`
	MERICategory   string `json:"meri_category,omitempty"`
	ResidualPct    Num    `json:"residual_pct"`
	ExpectedSalary Num    `json:"expected_salary"`
	TPMCategory    string `json:"tpm_category,omitempty"`

	Stats map[string]float64 `json:"stats,omitempty"`
}

// Row converts a record.
func Row(r table.Record) PlayerRow {
	d := r.Derived
	return PlayerRow{
		Name:             r.Name,
		Team:             r.Team,
		Position:         r.Position,
		WAR:              Num(r.WAR),
		Salary:           Num(r.Salary),
		ValueRatio:       Num(d.ValueRatio),
		WARPercentile:    Num(d.WARPercentile),
		SalaryPercentile: Num(d.SalaryPercentile),
		ValuePercentile:  Num(d.ValuePercentile),
		WVPI:             Num(d.WVPI),
		WVPICategory:     d.WVPICategory,
		RAV:              Num(d.RAV),
		RAVCategory:      d.RAVCategory,
		MERI:             Num(d.MERI),
		MERICategory:     d.MERICategory,
		ResidualPct:      Num(d.ResidualPct),
		ExpectedSalary:   Num(d.ExpectedSalary),
		TPMCategory:      d.TPMCategory,
		Stats:            r.Stats,
	}
}

// Rows converts every record of t.
func Rows(t *table.Table) []PlayerRow {
	out := make([]PlayerRow, len(t.Records))
	for i, r := range t.Records {
		out[i] = Row(r)
	}
	return out
}

// CategoryCount is one bar of a category distribution.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// countCategories tallies labels in the given order; unlisted labels are ignored.
func countCategories(t *table.Table, order []string, label func(table.Record) string) []CategoryCount {
	counts := make(map[string]int, len(order))
	for _, r := range t.Records {
		if l := label(r); l != "" {
			counts[l]++
		}
	}
	out := make([]CategoryCount, len(order))
	for i, c := range order {
		out[i] = CategoryCount{Category: c, Count: counts[c]}
	}
	return out
}
