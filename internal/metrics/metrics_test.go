package metrics

import (
	"errors"
	"math"
	"testing"

	"mlbvalue-mcp/internal/table"
)

func rec(name, pos string, war, salary float64) table.Record {
	return table.Record{Name: name, Position: pos, WAR: war, Salary: salary, Derived: table.EmptyDerived()}
}

func fullSchema() table.Schema {
	return table.Schema{HasName: true, HasPosition: true, HasPerformance: true, HasSalary: true}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestApply_ThreeRecordScenario(t *testing.T) {
	in := table.New(table.Schema{HasName: true, HasPerformance: true, HasSalary: true}, []table.Record{
		rec("a", "", 5, 2),
		rec("b", "", 2, 4),
		rec("c", "", 8, 1),
	})

	out, pop, err := Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	wantRatio := []float64{2.5, 0.5, 8.0}
	wantPct := []float64{200.0 / 3, 100.0 / 3, 100}
	for i, r := range out.Records {
		if r.Derived.ValueRatio != wantRatio[i] {
			t.Errorf("value_ratio[%d] = %v, want %v", i, r.Derived.ValueRatio, wantRatio[i])
		}
		if !near(r.Derived.WARPercentile, wantPct[i]) {
			t.Errorf("war_percentile[%d] = %v, want %v", i, r.Derived.WARPercentile, wantPct[i])
		}
	}
	if !near(pop.LeagueEfficiency, 15.0/7.0) {
		t.Errorf("league efficiency = %v, want 15/7", pop.LeagueEfficiency)
	}
	if pop.Baseline != 8 {
		t.Errorf("replacement baseline = %v, want 8 (cheapest player)", pop.Baseline)
	}
	if pop.MedianSalary != 2 {
		t.Errorf("median salary = %v, want 2", pop.MedianSalary)
	}
	// Input stays untouched.
	if !math.IsNaN(in.Records[0].Derived.ValueRatio) {
		t.Errorf("input table was mutated: %+v", in.Records[0].Derived)
	}
}

func TestApply_MissingMeasure(t *testing.T) {
	in := table.New(table.Schema{HasPerformance: true}, []table.Record{rec("a", "", 1, math.NaN())})
	if _, _, err := Apply(in); !errors.Is(err, ErrMissingMeasure) {
		t.Errorf("Apply() error = %v, want ErrMissingMeasure", err)
	}
}

func TestApply_IneligibleRecordsStayMissing(t *testing.T) {
	in := table.New(fullSchema(), []table.Record{
		rec("a", "SS", 3, 10),
		rec("b", "SS", 1, 0),
		rec("c", "C", math.NaN(), 5),
		rec("d", "C", -0.5, 1),
	})
	out, pop, err := Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if pop.Eligible != 2 || pop.Players != 4 {
		t.Errorf("eligible/players = %d/%d, want 2/4", pop.Eligible, pop.Players)
	}
	for _, i := range []int{1, 2} {
		d := out.Records[i].Derived
		if !math.IsNaN(d.ValueRatio) || !math.IsNaN(d.WVPI) || d.WVPICategory != "" || d.TPMCategory != "" {
			t.Errorf("ineligible record %d got derived values: %+v", i, d)
		}
	}
	if out.Records[3].Derived.ValueRatio != -0.5 {
		t.Errorf("negative WAR should stay eligible, value_ratio = %v", out.Records[3].Derived.ValueRatio)
	}
}

func TestWVPI_EliteIsTopDecile(t *testing.T) {
	recs := make([]table.Record, 100)
	for i := range recs {
		recs[i] = rec("", "", float64(i)*0.1, 1+float64((i*37)%100)*0.2)
	}
	out, pop, err := Apply(table.New(table.Schema{HasPerformance: true, HasSalary: true}, recs))
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	for _, r := range out.Records {
		counts[r.Derived.WVPICategory]++
	}
	if counts[WVPIElite] != 10 {
		t.Errorf("elite = %d, want 10 (p90 = %v)", counts[WVPIElite], pop.WVPI.P90)
	}
	if counts[WVPIProblem] != 25 {
		t.Errorf("problem contract = %d, want 25", counts[WVPIProblem])
	}
	total := 0
	for _, c := range WVPICategories {
		total += counts[c]
	}
	if total != 100 {
		t.Errorf("categorized %d records, want 100", total)
	}
}

func TestTPM_QuadrantsCoverPopulation(t *testing.T) {
	recs := make([]table.Record, 37)
	for i := range recs {
		recs[i] = rec("", "", float64((i*7)%11)-2, 0.5+float64((i*5)%13))
	}
	out, pop, err := Apply(table.New(table.Schema{HasPerformance: true, HasSalary: true}, recs))
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	for _, r := range out.Records {
		counts[r.Derived.TPMCategory]++
	}
	sum := counts[TPMStarValue] + counts[TPMPremiumStar] + counts[TPMRisingValue] + counts[TPMDeadweight]
	if sum != pop.Eligible {
		t.Errorf("quadrant total = %d, want %d", sum, pop.Eligible)
	}
}

func TestTPMQuadrant(t *testing.T) {
	tests := []struct {
		war, value float64
		want       string
	}{
		{50, 50, TPMStarValue},
		{90, 10, TPMPremiumStar},
		{10, 90, TPMRisingValue},
		{49.9, 49.9, TPMDeadweight},
	}
	for _, tt := range tests {
		if got := TPMQuadrant(tt.war, tt.value); got != tt.want {
			t.Errorf("TPMQuadrant(%v, %v) = %q, want %q", tt.war, tt.value, got, tt.want)
		}
	}
}

func TestRAV_Volatility(t *testing.T) {
	in := table.New(fullSchema(), []table.Record{
		rec("solo", "C", 4, 2),
		rec("ss1", "SS", 2, 1),
		rec("ss2", "SS", 6, 3),
		rec("nopos", "", 3, 2),
	})
	out, _, err := Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if v := out.Records[0].Derived.Volatility; v != 0 {
		t.Errorf("single-member position volatility = %v, want 0", v)
	}
	if v := out.Records[1].Derived.Volatility; v != 2 {
		t.Errorf("peer deviation = %v, want 2", v)
	}
	// Sample std of 4, 2, 6, 3.
	want := math.Sqrt(((4-3.75)*(4-3.75) + (2-3.75)*(2-3.75) + (6-3.75)*(6-3.75) + (3-3.75)*(3-3.75)) / 3)
	if v := out.Records[3].Derived.Volatility; !near(v, want) {
		t.Errorf("fallback volatility = %v, want %v", v, want)
	}
}

func TestRAVCategory(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{2.01, RAVLowRisk},
		{2, RAVStable},
		{1, RAVAverage},
		{0.0001, RAVAverage},
		{0, RAVHighRisk},
		{-3, RAVHighRisk},
	}
	for _, tt := range tests {
		if got := RAVCategory(tt.v); got != tt.want {
			t.Errorf("RAVCategory(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestMERI_DegenerateFallsBackToMeanSalary(t *testing.T) {
	in := table.New(table.Schema{HasPerformance: true, HasSalary: true}, []table.Record{
		rec("", "", 2, 1),
		rec("", "", 2, 3),
		rec("", "", 2, 5),
	})
	out, pop, err := Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if !pop.Fit.Degenerate {
		t.Fatal("expected a degenerate fit")
	}
	for _, r := range out.Records {
		if r.Derived.ExpectedSalary != 3 {
			t.Errorf("expected salary = %v, want mean 3", r.Derived.ExpectedSalary)
		}
	}
	if got := out.Records[0].Derived.ResidualPct; !near(got, -2.0/3.0) {
		t.Errorf("residual_pct = %v, want -2/3", got)
	}
	if got := out.Records[0].Derived.MERICategory; got != MERISeverelyUnder {
		t.Errorf("category = %q, want %q", got, MERISeverelyUnder)
	}
}

func TestMERI_PositionOffsets(t *testing.T) {
	in := table.New(fullSchema(), []table.Record{
		rec("", "P", 1, 10),
		rec("", "P", 3, 14),
		rec("", "C", 1, 2),
		rec("", "C", 3, 6),
	})
	out, pop, err := Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	// Overall line: salary = 4 + 2*WAR, so pitchers sit +4 above it and catchers -4 below.
	if !near(pop.Fit.Slope, 2) || !near(pop.Fit.Intercept, 4) {
		t.Fatalf("fit = %+v", pop.Fit)
	}
	if !near(pop.Offsets["P"], 4) || !near(pop.Offsets["C"], -4) {
		t.Errorf("offsets = %v", pop.Offsets)
	}
	if got := out.Records[0].Derived.ExpectedSalaryAdjusted; !near(got, 10) {
		t.Errorf("adjusted expectation = %v, want 10", got)
	}
	if got := out.Records[0].Derived.MERICategory; got != MERIFair {
		t.Errorf("category = %q, want %q", got, MERIFair)
	}
}

func TestMERICategory(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.51, MERISeverelyOver},
		{0.5, MERISlightlyOver},
		{0.1, MERIFair},
		{-0.1, MERIFair},
		{-0.5, MERISlightlyUnder},
		{-0.51, MERISeverelyUnder},
		{math.NaN(), ""},
	}
	for _, tt := range tests {
		if got := MERICategory(tt.v); got != tt.want {
			t.Errorf("MERICategory(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestPSI(t *testing.T) {
	tests := []struct {
		name          string
		war, salary   []float64
		wantSign      int
		riskUndefined bool
	}{
		{"AboveExpectation", []float64{3, 5}, []float64{1, 1}, 1, false},
		{"BelowExpectation", []float64{0.5, 1}, []float64{2, 2}, -1, false},
		{"SingleMember", []float64{4}, []float64{1}, 1, true},
		{"ZeroRisk", []float64{2, 2}, []float64{1, 1}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := PSI("team", tt.war, tt.salary, 1)
			sign := 0
			if res.PSI > 0 {
				sign = 1
			} else if res.PSI < 0 {
				sign = -1
			}
			if sign != tt.wantSign {
				t.Errorf("PSI = %v, want sign %d", res.PSI, tt.wantSign)
			}
			if res.RiskUndefined != tt.riskUndefined {
				t.Errorf("RiskUndefined = %v, want %v", res.RiskUndefined, tt.riskUndefined)
			}
			if res.Category != PSICategory(res.PSI) {
				t.Errorf("category = %q for PSI %v", res.Category, res.PSI)
			}
		})
	}
}

func TestPSICategory(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{1.6, PSIExcellent},
		{1.5, PSIGood},
		{0.5, PSIAverage},
		{-0.5, PSIPoor},
		{-1.5, PSIBad},
	}
	for _, tt := range tests {
		if got := PSICategory(tt.v); got != tt.want {
			t.Errorf("PSICategory(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestSEI(t *testing.T) {
	res := SEI([]float64{1, 2, 3}, []float64{5, 5, 5})
	if res.Correlation != 0 || res.Gini != 0 || res.SEI != 0 {
		t.Errorf("equal salaries: %+v, want zero correlation sentinel", res)
	}
	res = SEI([]float64{1, 2, 3}, []float64{1, 2, 3})
	if !near(res.Correlation, 1) || !near(res.SEI, 1-res.Gini) {
		t.Errorf("perfect sync: %+v", res)
	}
}

func TestRequire(t *testing.T) {
	s := table.Schema{HasPerformance: true, HasSalary: true, Measures: []string{"HR"}}
	if err := Require(s, Performance, Salary, Capability("HR")); err != nil {
		t.Errorf("Require() error = %v", err)
	}
	if err := Require(s, Team); !errors.Is(err, ErrMissingMeasure) {
		t.Errorf("Require(Team) error = %v, want ErrMissingMeasure", err)
	}
}
