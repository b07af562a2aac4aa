package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Convention names a column of the translation table, i.e. one naming
// convention (MCM, GECKO-A, ...) or an attribute such as molar mass.
type Convention string

const (
	ConventionMCM   Convention = "MCM"
	ConventionGecko Convention = "GECKO-A"
	ConventionMass  Convention = "MolarMass"
)

// TranslationTable is the parsed species database. Rows keep file order; the
// row index is the identity used by first/last match lookups.
type TranslationTable struct {
	Path    string
	header  []string
	rows    [][]string
	columns map[Convention]int
}

func NewTranslationTable(path string, header []string, rows [][]string) *TranslationTable {
	columns := make(map[Convention]int, len(header))
	for i, h := range header {
		name := Convention(strings.TrimSpace(h))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return &TranslationTable{
		Path:    path,
		header:  header,
		rows:    rows,
		columns: columns,
	}
}

func (t *TranslationTable) Header() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

func (t *TranslationTable) Len() int { return len(t.rows) }

func (t *TranslationTable) HasColumn(c Convention) bool {
	_, ok := t.columns[c]
	return ok
}

// ColumnIndex returns the position of column c in the header.
func (t *TranslationTable) ColumnIndex(c Convention) (int, error) {
	idx, ok := t.columns[c]
	if !ok {
		return -1, fmt.Errorf("column %q not in table %s", c, t.Path)
	}
	return idx, nil
}

// Cell returns the trimmed value at row, col.
func (t *TranslationTable) Cell(row, col int) string {
	return strings.TrimSpace(t.rows[row][col])
}

// Column returns every non-placeholder value of column c in row order.
func (t *TranslationTable) Column(c Convention) ([]string, error) {
	idx, err := t.ColumnIndex(c)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(t.rows))
	for row := range t.rows {
		v := t.Cell(row, idx)
		if v == "" || IsPlaceholder(v) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Mass parses the numeric attribute column for a row.
func (t *TranslationTable) Mass(row int, c Convention) (float64, error) {
	idx, err := t.ColumnIndex(c)
	if err != nil {
		return 0, err
	}
	v := t.Cell(row, idx)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: bad %s value %q: %w", row+1, c, v, err)
	}
	return f, nil
}

// IsPlaceholder reports a curly-brace wrapped entry, which marks a name as
// intentionally absent.
func IsPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return len(v) >= 2 && strings.HasPrefix(v, "{") && strings.HasSuffix(v, "}")
}
