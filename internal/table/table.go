package table

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// Canonical column names shared by ingestion, metrics and export.
const (
	ColName     = "Name"
	ColTeam     = "Team"
	ColPosition = "Position"
	ColWAR      = "WAR"
	ColSalary   = "Salary_millions"

	ColValueRatio       = "value_ratio"
	ColWARPercentile    = "war_percentile"
	ColSalaryPercentile = "salary_percentile"
	ColValuePercentile  = "value_percentile"
	ColWARNorm          = "WAR_norm"
	ColVRNorm           = "VR_norm"
	ColWVPI             = "WVPI"
	ColVolatility       = "sigma_WAR_approx"
	ColRAV              = "RAV"
	ColExpectedSalary   = "expected_salary"
	ColExpectedAdjusted = "expected_salary_position"
	ColResidualPct      = "residual_pct"
	ColMERI             = "MERI"
)

// Derived holds every column computed from the raw measures.
// Numeric fields are NaN when the record was not eligible for the computation.
type Derived struct {
	ValueRatio       float64 `json:"value_ratio"`
	WARPercentile    float64 `json:"war_percentile"`
	SalaryPercentile float64 `json:"salary_percentile"`
	ValuePercentile  float64 `json:"value_percentile"`
	WARCategory      string  `json:"war_category,omitempty"`
	SalaryCategory   string  `json:"salary_category,omitempty"`

	WARNorm      float64 `json:"war_norm"`
	VRNorm       float64 `json:"vr_norm"`
	WVPI         float64 `json:"wvpi"`
	WVPICategory string  `json:"wvpi_category,omitempty"`

	Volatility  float64 `json:"volatility"`
	RAV         float64 `json:"rav"`
	RAVCategory string  `json:"rav_category,omitempty"`

	ExpectedSalary         float64 `json:"expected_salary"`
	ExpectedSalaryAdjusted float64 `json:"expected_salary_adjusted"`
	ResidualPct            float64 `json:"residual_pct"`
	MERI                   float64 `json:"meri"`
	MERICategory           string  `json:"meri_category,omitempty"`

	TPMCategory string `json:"tpm_category,omitempty"`
}

// EmptyDerived returns a Derived with every numeric column marked missing.
func EmptyDerived() Derived {
	nan := math.NaN()
	return Derived{
		ValueRatio: nan, WARPercentile: nan, SalaryPercentile: nan, ValuePercentile: nan,
		WARNorm: nan, VRNorm: nan, WVPI: nan,
		Volatility: nan, RAV: nan,
		ExpectedSalary: nan, ExpectedSalaryAdjusted: nan, ResidualPct: nan, MERI: nan,
	}
}

// Record is one player-season row.
type Record struct {
	Name     string             `json:"name,omitempty"`
	Team     string             `json:"team,omitempty"`
	Position string             `json:"position,omitempty"`
	WAR      float64            `json:"war"`
	Salary   float64            `json:"salary_millions"`
	Stats    map[string]float64 `json:"stats,omitempty"`
	Derived  Derived            `json:"derived"`
}

// Eligible reports whether the record can take part in ratio, percentile and regression work.
func (r Record) Eligible() bool {
	return !math.IsNaN(r.WAR) && !math.IsInf(r.WAR, 0) &&
		!math.IsNaN(r.Salary) && !math.IsInf(r.Salary, 0) && r.Salary > 0
}

func (r Record) clone() Record {
	out := r
	if r.Stats != nil {
		out.Stats = make(map[string]float64, len(r.Stats))
		for k, v := range r.Stats {
			out.Stats[k] = v
		}
	}
	return out
}

// Schema is the set of measures a loaded table actually carries.
type Schema struct {
	HasName        bool     `json:"has_name"`
	HasTeam        bool     `json:"has_team"`
	HasPosition    bool     `json:"has_position"`
	HasPerformance bool     `json:"has_performance"`
	HasSalary      bool     `json:"has_salary"`
	Measures       []string `json:"measures,omitempty"` // optional numeric columns in input order
}

// HasMeasure reports whether an optional numeric column was present in the input.
func (s Schema) HasMeasure(name string) bool {
	return slices.Contains(s.Measures, name)
}

// Table is an in-memory set of records. Once published it is treated as immutable:
// every transformation returns a new Table with copied records.
type Table struct {
	Schema  Schema
	Records []Record
}

// New builds a table from the given records; the slice is owned by the table afterwards.
func New(schema Schema, records []Record) *Table {
	return &Table{Schema: schema, Records: records}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{Schema: t.Schema, Records: make([]Record, len(t.Records))}
	out.Schema.Measures = slices.Clone(t.Schema.Measures)
	for i, r := range t.Records {
		out.Records[i] = r.clone()
	}
	return out
}

// Filter returns a copy holding only the records for which keep returns true.
func (t *Table) Filter(keep func(Record) bool) *Table {
	out := &Table{Schema: t.Schema}
	out.Schema.Measures = slices.Clone(t.Schema.Measures)
	for _, r := range t.Records {
		if keep(r) {
			out.Records = append(out.Records, r.clone())
		}
	}
	return out
}

// Eligible returns a copy holding only records with a usable WAR and positive salary.
func (t *Table) Eligible() *Table {
	return t.Filter(Record.Eligible)
}

// Sorted returns a copy ordered by the given column. Missing values always sort last;
// ties keep input order.
func (t *Table) Sorted(column string, descending bool) (*Table, error) {
	if !t.HasColumn(column) {
		return nil, &UnknownColumnError{Column: column}
	}
	out := t.Clone()
	if isTextColumn(column) {
		slices.SortStableFunc(out.Records, func(a, b Record) int {
			av, bv := TextValue(a, column), TextValue(b, column)
			if av == "" || bv == "" {
				return missingLast(av == "", bv == "")
			}
			c := cmp.Compare(strings.ToLower(av), strings.ToLower(bv))
			if descending {
				return -c
			}
			return c
		})
		return out, nil
	}
	slices.SortStableFunc(out.Records, func(a, b Record) int {
		av, aok := Value(a, column)
		bv, bok := Value(b, column)
		if !aok || !bok {
			return missingLast(!aok, !bok)
		}
		c := cmp.Compare(av, bv)
		if descending {
			return -c
		}
		return c
	})
	return out, nil
}

func missingLast(aMissing, bMissing bool) int {
	switch {
	case aMissing && bMissing:
		return 0
	case aMissing:
		return 1
	default:
		return -1
	}
}

// Column extracts a numeric column, NaN marking missing cells.
func (t *Table) Column(name string) ([]float64, error) {
	if !t.HasColumn(name) || isTextColumn(name) {
		return nil, &UnknownColumnError{Column: name}
	}
	out := make([]float64, len(t.Records))
	for i, r := range t.Records {
		v, ok := Value(r, name)
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out, nil
}

// HasColumn reports whether the column name resolves for this table's schema.
func (t *Table) HasColumn(name string) bool {
	switch name {
	case ColName:
		return t.Schema.HasName
	case ColTeam:
		return t.Schema.HasTeam
	case ColPosition:
		return t.Schema.HasPosition
	case ColWAR:
		return t.Schema.HasPerformance
	case ColSalary:
		return t.Schema.HasSalary
	case ColValueRatio, ColWARPercentile, ColSalaryPercentile, ColValuePercentile,
		ColWARNorm, ColVRNorm, ColWVPI, ColVolatility, ColRAV,
		ColExpectedSalary, ColExpectedAdjusted, ColResidualPct, ColMERI:
		return t.Schema.HasPerformance && t.Schema.HasSalary
	}
	return t.Schema.HasMeasure(name)
}

// NumericColumns lists every numeric column available for this schema.
func (t *Table) NumericColumns() []string {
	var cols []string
	for _, c := range []string{ColWAR, ColSalary, ColValueRatio, ColWVPI, ColRAV, ColMERI,
		ColResidualPct, ColExpectedSalary, ColWARPercentile, ColSalaryPercentile, ColValuePercentile} {
		if t.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	return append(cols, t.Schema.Measures...)
}

// IsReserved reports whether name is a canonical or derived column, which an input
// file cannot supply as an extra measure.
func IsReserved(name string) bool {
	switch name {
	case ColName, ColTeam, ColPosition, ColWAR, ColSalary,
		ColValueRatio, ColWARPercentile, ColSalaryPercentile, ColValuePercentile,
		ColWARNorm, ColVRNorm, ColWVPI, ColVolatility, ColRAV,
		ColExpectedSalary, ColExpectedAdjusted, ColResidualPct, ColMERI:
		return true
	}
	return false
}

func isTextColumn(name string) bool {
	return name == ColName || name == ColTeam || name == ColPosition
}

// TextValue resolves a string column.
func TextValue(r Record, column string) string {
	switch column {
	case ColName:
		return r.Name
	case ColTeam:
		return r.Team
	case ColPosition:
		return r.Position
	}
	return ""
}

// Value resolves a numeric column for a record. ok is false when the cell is missing.
func Value(r Record, column string) (float64, bool) {
	var v float64
	switch column {
	case ColWAR:
		v = r.WAR
	case ColSalary:
		v = r.Salary
	case ColValueRatio:
		v = r.Derived.ValueRatio
	case ColWARPercentile:
		v = r.Derived.WARPercentile
	case ColSalaryPercentile:
		v = r.Derived.SalaryPercentile
	case ColValuePercentile:
		v = r.Derived.ValuePercentile
	case ColWARNorm:
		v = r.Derived.WARNorm
	case ColVRNorm:
		v = r.Derived.VRNorm
	case ColWVPI:
		v = r.Derived.WVPI
	case ColVolatility:
		v = r.Derived.Volatility
	case ColRAV:
		v = r.Derived.RAV
	case ColExpectedSalary:
		v = r.Derived.ExpectedSalary
	case ColExpectedAdjusted:
		v = r.Derived.ExpectedSalaryAdjusted
	case ColResidualPct:
		v = r.Derived.ResidualPct
	case ColMERI:
		v = r.Derived.MERI
	default:
		sv, ok := r.Stats[column]
		if !ok {
			return 0, false
		}
		v = sv
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// UnknownColumnError is returned when a column is not part of the table's schema.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return "unknown or unavailable column: " + e.Column
}
