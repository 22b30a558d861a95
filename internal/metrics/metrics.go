// Package metrics derives the player valuation indices (WVPI, RAV, MERI, TPM) and the
// group and league level indices (PSI, SEI) from a normalized player table.
package metrics

import (
	"errors"
	"fmt"

	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"

	"github.com/rs/zerolog/log"
)

// ErrMissingMeasure is returned when a computation needs a column the table does not carry.
var ErrMissingMeasure = errors.New("required measure not available")

// Capability names one optional part of a table schema.
type Capability string

const (
	Performance Capability = table.ColWAR
	Salary      Capability = table.ColSalary
	Position    Capability = table.ColPosition
	Team        Capability = table.ColTeam
	Name        Capability = table.ColName
)

// Require fails with ErrMissingMeasure for the first capability the schema lacks.
func Require(s table.Schema, caps ...Capability) error {
	for _, c := range caps {
		var ok bool
		switch c {
		case Performance:
			ok = s.HasPerformance
		case Salary:
			ok = s.HasSalary
		case Position:
			ok = s.HasPosition
		case Team:
			ok = s.HasTeam
		case Name:
			ok = s.HasName
		default:
			ok = s.HasMeasure(string(c))
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingMeasure, c)
		}
	}
	return nil
}

// Population carries the league-wide figures the record-level metrics were derived from.
type Population struct {
	Players          int     `json:"players"`
	Eligible         int     `json:"eligible"`
	LeagueEfficiency float64 `json:"league_efficiency"`
	MedianSalary     float64 `json:"median_salary"`

	WVPI     WVPIThresholds     `json:"wvpi_thresholds"`
	Baseline float64            `json:"replacement_baseline"`
	Fit      stats.SimpleFit    `json:"salary_fit"`
	Offsets  map[string]float64 `json:"position_offsets,omitempty"`
	SEI      SEIResult          `json:"sei"`
}

// Apply computes every record-level metric on a copy of t and returns it together with the
// population summary. The input table is left untouched.
func Apply(t *table.Table) (*table.Table, Population, error) {
	if err := Require(t.Schema, Performance, Salary); err != nil {
		return nil, Population{}, err
	}

	out := t.Clone()
	var eligible []*table.Record
	for i := range out.Records {
		r := &out.Records[i]
		fileRatio := r.Derived.ValueRatio
		r.Derived = table.EmptyDerived()
		if !r.Eligible() {
			continue
		}
		if stats.IsFinite(fileRatio) {
			r.Derived.ValueRatio = fileRatio
		} else {
			r.Derived.ValueRatio = r.WAR / r.Salary
		}
		eligible = append(eligible, r)
	}

	pop := Population{Players: out.Len(), Eligible: len(eligible)}
	pop.LeagueEfficiency = LeagueEfficiency(eligible)
	pop.MedianSalary = stats.Median(column(eligible, salaryOf))

	Percentiles(eligible)
	pop.WVPI = WVPI(eligible)
	pop.Baseline = RAV(eligible, out.Schema.HasPosition)
	pop.Fit, pop.Offsets = MERI(eligible, out.Schema.HasPosition)
	TPM(eligible)
	pop.SEI = SEI(column(eligible, warOf), column(eligible, salaryOf))

	log.Debug().
		Int("players", pop.Players).
		Int("eligible", pop.Eligible).
		Float64("league_efficiency", pop.LeagueEfficiency).
		Float64("sei", pop.SEI.SEI).
		Msg("Metrics computed")
	return out, pop, nil
}

// Percentiles fills the WAR, salary and value-ratio percentile ranks and the WAR/salary
// quartile categories of the given records.
func Percentiles(recs []*table.Record) {
	war := stats.PercentileRank(column(recs, warOf))
	sal := stats.PercentileRank(column(recs, salaryOf))
	vr := stats.PercentileRank(column(recs, ratioOf))
	warCat := stats.QuartileBuckets(column(recs, warOf), stats.QuartileLabels)
	salCat := stats.QuartileBuckets(column(recs, salaryOf), stats.QuartileLabels)
	for i, r := range recs {
		r.Derived.WARPercentile = war[i]
		r.Derived.SalaryPercentile = sal[i]
		r.Derived.ValuePercentile = vr[i]
		r.Derived.WARCategory = warCat[i]
		r.Derived.SalaryCategory = salCat[i]
	}
}

// LeagueEfficiency is total WAR over total salary; 0 when no salary is paid.
func LeagueEfficiency(recs []*table.Record) float64 {
	var war, salary float64
	for _, r := range recs {
		war += r.WAR
		salary += r.Salary
	}
	if salary == 0 {
		return 0
	}
	return war / salary
}

func warOf(r *table.Record) float64    { return r.WAR }
func salaryOf(r *table.Record) float64 { return r.Salary }
func ratioOf(r *table.Record) float64  { return r.Derived.ValueRatio }

func column(recs []*table.Record, get func(*table.Record) float64) []float64 {
	out := make([]float64, len(recs))
	for i, r := range recs {
		out[i] = get(r)
	}
	return out
}
