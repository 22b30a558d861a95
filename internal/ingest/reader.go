package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Raw is an untyped grid as read from disk: one header row plus data rows of equal width.
type Raw struct {
	Header []string
	Rows   [][]string
}

// ReadFile reads a delimited text file or an Excel workbook, chosen by extension.
func ReadFile(path string) (*Raw, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}
		defer f.Close()
		return ReadDelimited(f)
	}
}

// ReadDelimited parses CSV-like input. The delimiter is sniffed from the header line
// among comma, semicolon and tab.
func ReadDelimited(r io.Reader) (*Raw, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	head, err := br.Peek(64 * 1024)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	// Excel prepends a UTF-8 BOM; it must go before the csv reader sees a quoted first header.
	if bytes.HasPrefix(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		head = head[len(utf8BOM):]
	}
	if line, _, ok := bytes.Cut(head, []byte("\n")); ok || len(line) > 0 {
		head = line
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(head)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited data: %w", err)
	}
	return fromRows(rows)
}

var utf8BOM = []byte("\xef\xbb\xbf")

func sniffDelimiter(line []byte) rune {
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		n := 0
		quoted := false
		for _, c := range string(line) {
			switch {
			case c == '"':
				quoted = !quoted
			case c == d && !quoted:
				n++
			}
		}
		if n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// ReadXLSX reads the first sheet that carries a header row.
func ReadXLSX(path string) (*Raw, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if raw, err := fromRows(rows); err == nil {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("workbook %s has no sheet with a header row", filepath.Base(path))
}

// fromRows skips leading blank rows, treats the first remaining row as the header and
// pads or truncates data rows to the header width.
func fromRows(rows [][]string) (*Raw, error) {
	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, errors.New("data file has no header row")
	}

	header := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	raw := &Raw{Header: header}
	for _, row := range rows[start+1:] {
		if blank(row) {
			continue
		}
		cells := make([]string, len(header))
		copy(cells, row)
		raw.Rows = append(raw.Rows, cells)
	}
	return raw, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
