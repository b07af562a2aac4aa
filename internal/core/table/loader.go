package table

import (
	"fmt"
	"strings"

	"github.com/agenthands/mechcheck/internal/core/common"
	"github.com/agenthands/mechcheck/internal/core/model"
)

// DefaultSeparator terminates every field of the species database, including
// the last one on each line.
const DefaultSeparator = "&"

// Load reads a separator-delimited table. Line 1 is the header; each line ends
// with a trailing separator whose empty field is dropped.
func Load(path, sep string) (*model.TranslationTable, error) {
	if sep == "" {
		sep = DefaultSeparator
	}

	lines, err := common.ReadLines(path)
	if err != nil {
		return nil, err
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, &common.FormatError{Path: path, Msg: "table has no header line"}
	}

	header := splitFields(lines[0], sep)
	rows := make([][]string, 0, len(lines)-1)
	for i, line := range lines[1:] {
		fields := splitFields(line, sep)
		if len(fields) != len(header) {
			return nil, &common.FormatError{
				Path: path,
				Line: i + 2,
				Msg:  fmt.Sprintf("row has %d fields, header has %d", len(fields), len(header)),
			}
		}
		rows = append(rows, fields)
	}

	return model.NewTranslationTable(path, header, rows), nil
}

func splitFields(line, sep string) []string {
	line = strings.TrimRight(line, " \t")
	fields := strings.Split(line, sep)
	if n := len(fields); n > 0 && strings.TrimSpace(fields[n-1]) == "" {
		fields = fields[:n-1]
	}
	return fields
}
