// Package csvreader turns an uploaded CSV byte stream into a typed table.
package csvreader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"csvlens/domain/core"
	"csvlens/domain/dataset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DefaultNATokens are the cell texts read as missing in addition to the empty string
var DefaultNATokens = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan", "null", "NULL", "None",
	"<NA>", "#N/A", "#NA", "#N/A N/A", "1.#IND", "-1.#IND", "1.#QNAN", "-1.#QNAN",
}

// Loader parses comma separated text with a header row
type Loader struct {
	naTokens map[string]struct{}
	comma    rune
}

// NewLoader creates a loader with the default missing-value tokens
func NewLoader() *Loader {
	tokens := make(map[string]struct{}, len(DefaultNATokens))
	for _, t := range DefaultNATokens {
		tokens[t] = struct{}{}
	}
	return &Loader{naTokens: tokens, comma: ','}
}

// Load reads the whole stream and infers a kind for every column.
// Every failure is a core.ErrParse.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*dataset.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.NewParseError(0, fmt.Sprintf("unreadable upload: %v", err))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, core.NewParseError(0, "upload is not valid UTF-8 text")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = l.comma
	reader.FieldsPerRecord = 0

	records, err := reader.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, core.NewParseError(pe.Line, pe.Err.Error())
		}
		return nil, core.NewParseError(0, err.Error())
	}
	return l.FromRecords(records)
}

// FromRecords builds a table from already split records, the first being
// the header. Every record must have as many fields as the header.
func (l *Loader) FromRecords(records [][]string) (*dataset.Table, error) {
	if len(records) == 0 {
		return nil, core.NewParseError(0, "upload is empty; a header row is required")
	}

	header := normalizeHeader(records[0])
	rows := records[1:]
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, core.NewParseError(i+2, fmt.Sprintf("expected %d fields, found %d", len(header), len(row)))
		}
	}

	columns := make([]*dataset.Column, len(header))
	for c, name := range header {
		columns[c] = l.buildColumn(name, rows, c)
	}

	table, err := dataset.NewTable(columns)
	if err != nil {
		return nil, core.NewParseError(0, err.Error())
	}
	return table, nil
}

// buildColumn collects column c and infers its kind: numeric only when every
// present cell parses as a number
func (l *Loader) buildColumn(name string, rows [][]string, c int) *dataset.Column {
	raw := make([]string, len(rows))
	missing := make([]bool, len(rows))
	numbers := make([]float64, len(rows))
	numeric := true

	for r, record := range rows {
		cell := record[c]
		if l.IsMissing(cell) {
			missing[r] = true
			numbers[r] = math.NaN()
			continue
		}
		raw[r] = cell
		if numeric {
			v, ok := ParseNumber(cell)
			if !ok {
				numeric = false
				continue
			}
			numbers[r] = v
		}
	}

	if !numeric {
		return dataset.NewCategoricalColumn(name, raw, missing)
	}
	return &dataset.Column{
		Name:    name,
		Kind:    dataset.KindNumeric,
		Raw:     raw,
		Numbers: numbers,
		Missing: missing,
	}
}

// IsMissing reports whether a cell text stands for a missing value
func (l *Loader) IsMissing(cell string) bool {
	_, ok := l.naTokens[cell]
	return ok
}

// ParseNumber parses a decimal number, ignoring surrounding space.
// Hexadecimal literals are rejected even though strconv accepts them.
func ParseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// normalizeHeader names blank headers "Unnamed: i" and de-duplicates repeats as name.1, name.2
func normalizeHeader(fields []string) []string {
	out := make([]string, len(fields))
	used := make(map[string]bool, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f) == "" {
			f = fmt.Sprintf("Unnamed: %d", i)
		}
		name := f
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", f, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}
