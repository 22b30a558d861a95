package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadDelimited_SniffsDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Comma", "Name,WAR,Salary_millions\n\"Judge, Aaron\",10.8,40\n"},
		{"Semicolon", "Name;WAR;Salary_millions\nJudge, Aaron;10.8;40\n"},
		{"Tab", "Name\tWAR\tSalary_millions\nJudge, Aaron\t10.8\t40\n"},
		{"BOM", "\ufeffName,WAR,Salary_millions\n\"Judge, Aaron\",10.8,40\n"},
		{"BOMQuotedHeader", "\ufeff\"Name\";\"WAR\";\"Salary_millions\"\n\"Judge, Aaron\";10.8;40\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ReadDelimited(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadDelimited() error = %v", err)
			}
			if len(raw.Header) != 3 || raw.Header[0] != "Name" {
				t.Fatalf("header = %q", raw.Header)
			}
			if len(raw.Rows) != 1 || raw.Rows[0][0] != "Judge, Aaron" {
				t.Errorf("rows = %q", raw.Rows)
			}
		})
	}
}

func TestReadDelimited_PadsShortRows(t *testing.T) {
	raw, err := ReadDelimited(strings.NewReader("a,b,c\n1,2\n\n3,4,5,6\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw.Rows) != 2 {
		t.Fatalf("rows = %d, want 2 (blank skipped)", len(raw.Rows))
	}
	for i, row := range raw.Rows {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", i, len(row))
		}
	}
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]any{
		{"Player", "Team", "Pos", "WAR", "Salary_millions"},
		{"Bobby Witt Jr.", "KCR", 6, 9.4, 7.7},
		{"Gunnar Henderson", "BAL", "6", 8.0, 0.8},
	}
	for r, row := range cells {
		for c, v := range row {
			name, _ := excelize.CoordinatesToCellName(c+1, r+2) // leave a blank first row
			if err := f.SetCellValue(sheet, name, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	tbl, _, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	r := tbl.Records[0]
	if r.Name != "Bobby Witt Jr." || r.Position != "SS" || r.WAR != 9.4 || r.Salary != 7.7 {
		t.Errorf("record = %+v", r)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.csv")
	if err := os.WriteFile(path, []byte("WAR,Salary_millions\n1,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Load(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	if _, err := Discover(root, ""); !errors.Is(err, ErrNoDataFile) {
		t.Fatalf("empty root error = %v, want ErrNoDataFile", err)
	}

	// The processed location is found when the first candidate is absent.
	processed := filepath.Join(root, "data", "processed", DefaultFileName)
	if err := os.MkdirAll(filepath.Dir(processed), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(processed, []byte("WAR\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Discover(root, "")
	if err != nil || got != processed {
		t.Fatalf("Discover() = %q, %v; want %q", got, err, processed)
	}

	// A higher-priority candidate wins once it exists.
	first := filepath.Join(root, "data", DefaultFileName)
	if err := os.WriteFile(first, []byte("WAR\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, _ := Discover(root, ""); got != first {
		t.Errorf("Discover() = %q, want %q", got, first)
	}

	if got, err := Discover(root, "data/processed/"+DefaultFileName); err != nil || got != processed {
		t.Errorf("explicit relative file = %q, %v", got, err)
	}
	if _, err := Discover(root, "missing.csv"); !errors.Is(err, ErrNoDataFile) {
		t.Errorf("explicit missing file error = %v", err)
	}
}
