package export

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mlbvalue-mcp/internal/table"
)

func sample() *table.Table {
	d := table.EmptyDerived()
	d.ValueRatio = 2.5
	d.WVPI = 71.25
	d.WVPICategory = "elite"
	schema := table.Schema{HasName: true, HasTeam: true, HasPerformance: true, HasSalary: true}
	return table.New(schema, []table.Record{
		{Name: "Judge, Aaron", Team: "NYY", WAR: 5, Salary: 2, Derived: d},
		{Name: "Nobody", Team: "OAK", WAR: math.NaN(), Salary: 1, Derived: table.EmptyDerived()},
	})
}

func TestWriteCSV_DefaultColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample(), nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "Name,Team,WAR,Salary_millions,value_ratio,WVPI,RAV,MERI" {
		t.Errorf("header = %q (Position is absent from the schema)", lines[0])
	}
	if lines[1] != `"Judge, Aaron",NYY,5,2,2.5,71.25,,` {
		t.Errorf("row = %q", lines[1])
	}
	if lines[2] != "Nobody,OAK,,1,,,," {
		t.Errorf("missing values row = %q", lines[2])
	}
}

func TestWriteCSV_ChosenColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample(), []string{table.ColName, ColWVPICategory}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\"Judge, Aaron\",elite") {
		t.Errorf("csv = %q", buf.String())
	}
	if err := WriteCSV(&buf, sample(), []string{"OPS"}); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 7, 9, 5, 59, 0, time.UTC)
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "mlb_data_20240307_0905.csv"},
		{"nyy", "nyy_20240307_0905.csv"},
	}
	for _, tt := range tests {
		if got := Filename(tt.prefix, now); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	now := time.Date(2024, 3, 7, 9, 5, 0, 0, time.UTC)
	path, err := Save(dir, "", now, sample(), nil)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Base(path) != "mlb_data_20240307_0905.csv" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "Name,Team,") {
		t.Errorf("content = %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir holds %d files, temp file left behind", len(entries))
	}
}
