package ingest

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"mlbvalue-mcp/internal/table"

	"github.com/rs/zerolog/log"
)

// TeamSentinel marks aggregate rows (multi-team seasons) in the merged source data.
const TeamSentinel = "---"

// Aliases lists, per canonical column, the alternative header names tried in order.
var Aliases = map[string][]string{
	table.ColTeam:     {"Team_performance", "Team_salary", "team", "TEAM"},
	table.ColPosition: {"Position_salary", "position", "Pos", "POS"},
	table.ColName:     {"Name_clean", "Player", "Player_formatted", "player"},
	table.ColWAR:      {"war", "fWAR", "bWAR"},
	table.ColSalary:   {"salary_millions", "Salary_M", "salary_m"},
}

var positionCodes = map[int]string{
	1: "P", 2: "C", 3: "1B", 4: "2B", 5: "3B",
	6: "SS", 7: "LF", 8: "CF", 9: "RF", 10: "DH",
}

// Report describes what normalization did to the raw input.
type Report struct {
	Renamed     map[string]string `json:"renamed,omitempty"` // canonical -> source header
	DroppedRows int               `json:"dropped_rows"`
	Rows        int               `json:"rows"`
}

// Load reads, then normalizes the file at path.
func Load(ctx context.Context, path string) (*table.Table, Report, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Report{}, err
	}
	return Normalize(raw)
}

// Normalize maps raw headers onto canonical columns, decodes position codes, drops rows
// with a placeholder team and parses numeric cells. Columns that cannot be resolved stay
// absent from the schema; that never fails the load.
func Normalize(raw *Raw) (*table.Table, Report, error) {
	if raw == nil || len(raw.Header) == 0 {
		return nil, Report{}, fmt.Errorf("data file has no columns")
	}

	index := make(map[string]int, len(raw.Header))
	for i, h := range raw.Header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	report := Report{Renamed: map[string]string{}}
	resolve := func(canonical string) int {
		if i, ok := index[canonical]; ok {
			return i
		}
		for _, alias := range Aliases[canonical] {
			if i, ok := index[alias]; ok {
				report.Renamed[canonical] = alias
				return i
			}
		}
		return -1
	}

	nameIdx := resolve(table.ColName)
	teamIdx := resolve(table.ColTeam)
	posIdx := resolve(table.ColPosition)
	warIdx := resolve(table.ColWAR)
	salIdx := resolve(table.ColSalary)
	vrIdx, hasVR := index[table.ColValueRatio]
	if !hasVR {
		vrIdx = -1
	}

	used := map[int]bool{nameIdx: true, teamIdx: true, posIdx: true, warIdx: true, salIdx: true, vrIdx: true}
	// Unused aliases (e.g. Team_salary next to Team_performance) are not measures.
	for _, aliases := range Aliases {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				used[i] = true
			}
		}
	}

	schema := table.Schema{
		HasName:        nameIdx >= 0,
		HasTeam:        teamIdx >= 0,
		HasPosition:    posIdx >= 0,
		HasPerformance: warIdx >= 0,
		HasSalary:      salIdx >= 0,
	}
	var measureIdx []int
	for i, h := range raw.Header {
		if used[i] || h == "" || table.IsReserved(h) {
			continue
		}
		if numericColumn(raw.Rows, i) {
			schema.Measures = append(schema.Measures, h)
			measureIdx = append(measureIdx, i)
		}
	}

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]table.Record, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		team := cell(row, teamIdx)
		if schema.HasTeam && (team == "" || team == TeamSentinel) {
			report.DroppedRows++
			continue
		}
		rec := table.Record{
			Name:     cell(row, nameIdx),
			Team:     team,
			Position: MapPosition(cell(row, posIdx)),
			WAR:      ParseNumber(cell(row, warIdx)),
			Salary:   ParseNumber(cell(row, salIdx)),
			Derived:  table.EmptyDerived(),
		}
		if hasVR {
			rec.Derived.ValueRatio = ParseNumber(cell(row, vrIdx))
		}
		for k, i := range measureIdx {
			if v := ParseNumber(cell(row, i)); !math.IsNaN(v) {
				if rec.Stats == nil {
					rec.Stats = make(map[string]float64, len(measureIdx))
				}
				rec.Stats[schema.Measures[k]] = v
			}
		}
		records = append(records, rec)
	}
	report.Rows = len(records)

	if len(report.Renamed) == 0 {
		report.Renamed = nil
	}
	log.Debug().
		Int("rows", report.Rows).
		Int("dropped", report.DroppedRows).
		Interface("renamed", report.Renamed).
		Strs("measures", schema.Measures).
		Msg("Normalized player table")

	return table.New(schema, records), report, nil
}

// MapPosition converts numeric fielding codes (1..10, also "3.0" as written from a float
// column) and the uppercase letter "O" to position abbreviations. Anything else passes
// through unchanged.
func MapPosition(code string) string {
	if code == "" {
		return ""
	}
	if code == "O" {
		return "DH"
	}
	if f, err := strconv.ParseFloat(code, 64); err == nil && f == math.Trunc(f) {
		if p, ok := positionCodes[int(f)]; ok {
			return p
		}
	}
	return code
}

var missingTokens = map[string]bool{
	"na": true, "n/a": true, "nan": true, "null": true, "none": true, "-": true, "--": true,
}

// ParseNumber parses a numeric cell. Thousands separators, currency signs and blanks are
// tolerated; anything unparsable becomes NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return math.NaN()
	}
	if missingTokens[strings.ToLower(s)] {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// numericColumn reports whether a column has at least one value and every non-blank cell parses.
func numericColumn(rows [][]string, i int) bool {
	seen := false
	for _, row := range rows {
		if i >= len(row) {
			continue
		}
		s := strings.TrimSpace(row[i])
		if s == "" {
			continue
		}
		if missingTokens[strings.ToLower(s)] {
			continue
		}
		if math.IsNaN(ParseNumber(s)) {
			return false
		}
		seen = true
	}
	return seen
}
