package ingest

import (
	"math"
	"strings"
	"testing"

	"mlbvalue-mcp/internal/table"
)

func TestMapPosition(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "P"},
		{"2", "C"},
		{"3.0", "1B"},
		{"6", "SS"},
		{"9", "RF"},
		{"10", "DH"},
		{"O", "DH"},
		{"o", "o"},
		{"10.0", "DH"},
		{"SS", "SS"},
		{"11", "11"},
		{"2.5", "2.5"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MapPosition(tt.in); got != tt.want {
			t.Errorf("MapPosition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		missing bool
	}{
		{"3.5", 3.5, false},
		{" 1,250.75 ", 1250.75, false},
		{"$12", 12, false},
		{"-1.2", -1.2, false},
		{"", 0, true},
		{"NA", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got := ParseNumber(tt.in)
		if tt.missing {
			if !math.IsNaN(got) {
				t.Errorf("ParseNumber(%q) = %v, want NaN", tt.in, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_AliasesAndSentinel(t *testing.T) {
	raw := &Raw{
		Header: []string{"Player", "Team_performance", "Team_salary", "Position_salary", "war", "Salary_M", "HR", "Notes"},
		Rows: [][]string{
			{"Aaron Judge", "NYY", "NYY", "9", "10.8", "40", "58", "captain"},
			{"Traded Guy", "---", "BOS", "2", "1.1", "3", "4", ""},
			{"No Team", "", "", "1", "0.5", "1", "0", ""},
			{"Shohei Ohtani", "LAD", "LAD", "O", "9.2", "2", "54", ""},
			{"Unknown Salary", "SEA", "SEA", "6", "2.0", "", "", ""},
		},
	}

	tbl, report, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if tbl.Len() != 3 || report.DroppedRows != 2 {
		t.Fatalf("kept %d rows, dropped %d; want 3 and 2", tbl.Len(), report.DroppedRows)
	}
	if report.Renamed[table.ColName] != "Player" || report.Renamed[table.ColTeam] != "Team_performance" {
		t.Errorf("renamed = %v", report.Renamed)
	}

	s := tbl.Schema
	if !s.HasName || !s.HasTeam || !s.HasPosition || !s.HasPerformance || !s.HasSalary {
		t.Errorf("schema = %+v, want every capability", s)
	}
	if len(s.Measures) != 1 || s.Measures[0] != "HR" {
		t.Errorf("measures = %v, want [HR]", s.Measures)
	}

	judge := tbl.Records[0]
	if judge.Name != "Aaron Judge" || judge.Position != "RF" || judge.WAR != 10.8 || judge.Salary != 40 {
		t.Errorf("first record = %+v", judge)
	}
	if judge.Stats["HR"] != 58 {
		t.Errorf("HR = %v, want 58", judge.Stats["HR"])
	}
	if tbl.Records[1].Position != "DH" {
		t.Errorf("O should map to DH, got %q", tbl.Records[1].Position)
	}
	if !math.IsNaN(tbl.Records[2].Salary) || tbl.Records[2].Eligible() {
		t.Errorf("missing salary should be NaN and ineligible: %+v", tbl.Records[2])
	}
	if _, ok := tbl.Records[2].Stats["HR"]; ok {
		t.Error("blank HR cell should be absent")
	}
}

func TestNormalize_CanonicalWinsOverAlias(t *testing.T) {
	raw := &Raw{
		Header: []string{"Name", "Name_clean", "WAR", "Salary_millions", "value_ratio"},
		Rows:   [][]string{{"A. Player", "a player", "2", "4", "0.5"}},
	}
	tbl, report, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Records[0].Name != "A. Player" {
		t.Errorf("name = %q, want canonical column", tbl.Records[0].Name)
	}
	if report.Renamed != nil {
		t.Errorf("renamed = %v, want none", report.Renamed)
	}
	if tbl.Schema.HasTeam || tbl.Schema.HasPosition {
		t.Errorf("schema = %+v, team and position should be absent", tbl.Schema)
	}
	if tbl.Records[0].Derived.ValueRatio != 0.5 {
		t.Errorf("value_ratio = %v, want file value 0.5", tbl.Records[0].Derived.ValueRatio)
	}
	if len(tbl.Schema.Measures) != 0 {
		t.Errorf("measures = %v, want none", tbl.Schema.Measures)
	}
}

func TestNormalize_MissingMeasuresDoNotFail(t *testing.T) {
	raw, err := ReadDelimited(strings.NewReader("Name,Team\nA,NYY\n"))
	if err != nil {
		t.Fatal(err)
	}
	tbl, _, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if tbl.Schema.HasPerformance || tbl.Schema.HasSalary {
		t.Errorf("schema = %+v", tbl.Schema)
	}
	if tbl.Len() != 1 {
		t.Errorf("rows = %d, want 1", tbl.Len())
	}
}

func TestNormalize_Empty(t *testing.T) {
	if _, _, err := Normalize(&Raw{}); err == nil {
		t.Error("expected error for input without header")
	}
}
