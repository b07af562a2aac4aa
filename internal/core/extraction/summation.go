package extraction

import (
	"strings"

	"github.com/agenthands/mechcheck/internal/core/common"
)

// Summation extracts the members of the RO2 summation, i.e. every species
// referenced through the concentration marker, in file order.
func (e *Extractor) Summation(path string) ([]string, error) {
	lines, err := common.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return e.summationFromLines(path, lines)
}

func (e *Extractor) summationFromLines(path string, lines []string) ([]string, error) {
	var names []string
	matched := false
	for _, line := range lines {
		if !strings.Contains(line, e.Markers.Concentration) {
			continue
		}
		matched = true
		if e.Markers.Continuation != "" {
			line = strings.ReplaceAll(line, e.Markers.Continuation, "")
		}
		for _, tok := range strings.Split(line, "+") {
			if name := e.summationTerm(tok); name != "" {
				names = append(names, name)
			}
		}
	}
	if !matched {
		return nil, &common.FormatError{Path: path, Marker: e.Markers.Concentration, Msg: "no RO2 summation terms found"}
	}
	return names, nil
}

func (e *Extractor) summationTerm(tok string) string {
	if p := e.Markers.SpeciesPrefix; p != "" {
		if i := strings.Index(tok, p); i >= 0 {
			tok = tok[i+len(p):]
		}
	}
	if i := strings.Index(tok, ")"); i >= 0 {
		tok = tok[:i]
	}
	return strings.TrimSpace(tok)
}
