package table

import (
	"errors"
	"math"
	"testing"
)

func sample() *Table {
	return New(Schema{HasName: true, HasTeam: true, HasPerformance: true, HasSalary: true, Measures: []string{"HR"}},
		[]Record{
			{Name: "A", Team: "NYY", WAR: 5, Salary: 2, Stats: map[string]float64{"HR": 30}, Derived: EmptyDerived()},
			{Name: "B", Team: "BOS", WAR: 2, Salary: 4, Stats: map[string]float64{"HR": 10}, Derived: EmptyDerived()},
			{Name: "C", Team: "NYY", WAR: 8, Salary: math.NaN(), Derived: EmptyDerived()},
		})
}

func TestRecordEligible(t *testing.T) {
	tests := []struct {
		name   string
		rec    Record
		expect bool
	}{
		{"Valid", Record{WAR: 1, Salary: 1}, true},
		{"NegativeWAR", Record{WAR: -1.5, Salary: 1}, true},
		{"ZeroSalary", Record{WAR: 1, Salary: 0}, false},
		{"NegativeSalary", Record{WAR: 1, Salary: -2}, false},
		{"MissingWAR", Record{WAR: math.NaN(), Salary: 1}, false},
		{"MissingSalary", Record{WAR: 1, Salary: math.NaN()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Eligible(); got != tt.expect {
				t.Errorf("Eligible() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestFilterDoesNotShareStats(t *testing.T) {
	tbl := sample()
	out := tbl.Filter(func(r Record) bool { return r.Team == "NYY" })
	if out.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", out.Len())
	}
	out.Records[0].Stats["HR"] = 99
	out.Records[0].WAR = 100
	if tbl.Records[0].Stats["HR"] != 30 || tbl.Records[0].WAR != 5 {
		t.Error("mutating a filtered copy changed the source table")
	}
}

func TestSortedMissingLastAndStable(t *testing.T) {
	tbl := sample()
	sorted, err := tbl.Sorted(ColSalary, true)
	if err != nil {
		t.Fatal(err)
	}
	got := []string{sorted.Records[0].Name, sorted.Records[1].Name, sorted.Records[2].Name}
	want := []string{"B", "A", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if tbl.Records[0].Name != "A" {
		t.Error("Sorted reordered the source table")
	}

	byTeam, err := tbl.Sorted(ColTeam, false)
	if err != nil {
		t.Fatal(err)
	}
	if byTeam.Records[0].Name != "B" || byTeam.Records[1].Name != "A" || byTeam.Records[2].Name != "C" {
		t.Errorf("unexpected team order: %s %s %s", byTeam.Records[0].Name, byTeam.Records[1].Name, byTeam.Records[2].Name)
	}
}

func TestSortedUnknownColumn(t *testing.T) {
	_, err := sample().Sorted("ERA", false)
	var uce *UnknownColumnError
	if !errors.As(err, &uce) {
		t.Fatalf("expected UnknownColumnError, got %v", err)
	}
}

func TestColumnAndValue(t *testing.T) {
	tbl := sample()
	hr, err := tbl.Column("HR")
	if err != nil {
		t.Fatal(err)
	}
	if hr[0] != 30 || hr[1] != 10 || !math.IsNaN(hr[2]) {
		t.Errorf("unexpected HR column: %v", hr)
	}
	if _, ok := Value(tbl.Records[2], ColSalary); ok {
		t.Error("expected missing salary to resolve as not ok")
	}
	if _, err := tbl.Column(ColName); err == nil {
		t.Error("expected text column to be rejected as numeric")
	}
}
