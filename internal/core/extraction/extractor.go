package extraction

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/core/common"
	"github.com/agenthands/mechcheck/internal/core/model"
)

// Extractor pulls species and RO2 name lists out of KPP and mechanism
// description files. Markers control every sentinel it matches on.
type Extractor struct {
	Markers model.Markers
	Logger  *zap.Logger

	ignoreSuffix *regexp.Regexp
	ro2Assign    *regexp.Regexp
}

func NewExtractor(markers model.Markers, logger *zap.Logger) (*Extractor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if markers.Ignore == "" {
		return nil, fmt.Errorf("ignore marker must not be empty")
	}

	// The suffix strip is case and whitespace tolerant even though line
	// selection on the ignore token is not.
	ignoreSuffix, err := regexp.Compile(`(?i)\s*=\s*` + regexp.QuoteMeta(markers.Ignore) + `.*$`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile ignore pattern: %w", err)
	}
	ro2Assign, err := regexp.Compile(markers.RO2Assignment)
	if err != nil {
		return nil, fmt.Errorf("failed to compile RO2 assignment pattern %q: %w", markers.RO2Assignment, err)
	}

	return &Extractor{
		Markers:      markers,
		Logger:       logger,
		ignoreSuffix: ignoreSuffix,
		ro2Assign:    ro2Assign,
	}, nil
}

// Species extracts the DEFVAR species declarations of a KPP file in file
// order. Duplicates are kept.
func (e *Extractor) Species(path string, mode model.ExtractMode) ([]string, error) {
	lines, err := common.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return e.speciesFromLines(path, lines, mode)
}

func (e *Extractor) speciesFromLines(path string, lines []string, mode model.ExtractMode) ([]string, error) {
	switch mode {
	case model.ExtractScan:
		return e.scanSpecies(lines), nil
	case model.ExtractBounded, "":
		return e.boundedSpecies(path, lines)
	default:
		return nil, fmt.Errorf("unknown extract mode %q", mode)
	}
}

func (e *Extractor) scanSpecies(lines []string) []string {
	var names []string
	for _, line := range lines {
		if !strings.Contains(line, e.Markers.Ignore) {
			continue
		}
		if name := e.stripIgnore(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (e *Extractor) boundedSpecies(path string, lines []string) ([]string, error) {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, e.Markers.Defvar) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, &common.FormatError{Path: path, Marker: e.Markers.Defvar, Msg: "start sentinel not found"}
	}

	end := -1
	for i := len(lines) - 1; i > start; i-- {
		if strings.Contains(lines[i], e.Markers.Ignore) {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, &common.FormatError{Path: path, Line: start + 1, Marker: e.Markers.Ignore, Msg: "no declaration after start sentinel"}
	}

	names := make([]string, 0, end-start)
	for _, line := range lines[start+1 : end+1] {
		names = append(names, e.stripIgnore(line))
	}
	return names, nil
}

func (e *Extractor) stripIgnore(line string) string {
	return strings.TrimSpace(e.ignoreSuffix.ReplaceAllString(line, ""))
}
