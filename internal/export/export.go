// Package export writes filtered player views as CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mlbvalue-mcp/internal/table"

	"github.com/rs/zerolog/log"
)

// DefaultPrefix names exported files mlb_data_<timestamp>.csv.
const DefaultPrefix = "mlb_data"

// Category columns that can be exported next to the numeric ones.
const (
	ColWVPICategory = "WVPI_category"
	ColRAVCategory  = "RAV_category"
	ColMERICategory = "MERI_category"
	ColTPMCategory  = "TPM_category"
)

// DefaultColumns are exported when the caller does not choose columns.
var DefaultColumns = []string{
	table.ColName, table.ColTeam, table.ColPosition, table.ColWAR, table.ColSalary,
	table.ColValueRatio, table.ColWVPI, table.ColRAV, table.ColMERI,
}

func categoryOf(r table.Record, column string) (string, bool) {
	switch column {
	case ColWVPICategory:
		return r.Derived.WVPICategory, true
	case ColRAVCategory:
		return r.Derived.RAVCategory, true
	case ColMERICategory:
		return r.Derived.MERICategory, true
	case ColTPMCategory:
		return r.Derived.TPMCategory, true
	}
	return "", false
}

// Columns resolves the requested columns against t. Unknown names are an error;
// an empty request selects the available default columns.
func Columns(t *table.Table, requested []string) ([]string, error) {
	if len(requested) == 0 {
		var cols []string
		for _, c := range DefaultColumns {
			if t.HasColumn(c) {
				cols = append(cols, c)
			}
		}
		return cols, nil
	}
	metricsOn := t.Schema.HasPerformance && t.Schema.HasSalary
	for _, c := range requested {
		if _, isCat := categoryOf(table.Record{}, c); isCat && metricsOn {
			continue
		}
		if !t.HasColumn(c) {
			return nil, &table.UnknownColumnError{Column: c}
		}
	}
	return requested, nil
}

// WriteCSV writes the header and one line per record. Missing values are empty cells.
func WriteCSV(w io.Writer, t *table.Table, columns []string) error {
	cols, err := Columns(t, columns)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	line := make([]string, len(cols))
	for _, r := range t.Records {
		for i, c := range cols {
			line[i] = cell(r, c)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(r table.Record, column string) string {
	if s, ok := categoryOf(r, column); ok {
		return s
	}
	switch column {
	case table.ColName, table.ColTeam, table.ColPosition:
		return table.TextValue(r, column)
	}
	v, ok := table.Value(r, column)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Filename stamps prefix with the local time to the minute: prefix_YYYYMMDD_HHMM.csv.
func Filename(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("20060102_1504"))
}

// Save writes t into dir under a timestamped name via a temp file and rename, so readers
// never observe a partial export. It returns the final path.
func Save(dir, prefix string, now time.Time, t *table.Table, columns []string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(dir, Filename(prefix, now))

	tmp, err := os.CreateTemp(dir, ".export-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create temp export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, t, columns); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to publish export: %w", err)
	}

	log.Info().Str("path", path).Int("rows", t.Len()).Msg("Exported players")
	return path, nil
}
