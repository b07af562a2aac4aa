package extraction

import (
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/core/common"
	"github.com/agenthands/mechcheck/internal/core/model"
)

// Description extracts the VARIABLE species block and the RO2 assignment of a
// mechanism description file and checks both against the lists taken from the
// KPP files.
func (e *Extractor) Description(path string, species, ro2 []string) (*model.Description, error) {
	lines, err := common.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return e.descriptionFromLines(path, lines, species, ro2)
}

func (e *Extractor) descriptionFromLines(path string, lines []string, species, ro2 []string) (*model.Description, error) {
	descSpecies, err := e.variableBlock(path, lines)
	if err != nil {
		return nil, err
	}
	descRO2, err := e.ro2Block(path, lines)
	if err != nil {
		return nil, err
	}

	d := &model.Description{
		Species:       descSpecies,
		RO2:           descRO2,
		SpeciesDiffer: !common.EqualSorted(descSpecies, species),
		RO2Differ:     !common.EqualSorted(descRO2, ro2),
	}
	if d.SpeciesDiffer {
		e.Logger.Warn("Description species differ from mechanism species",
			zap.String("path", path),
			zap.Int("description", len(descSpecies)),
			zap.Int("mechanism", len(species)))
	}
	if d.RO2Differ {
		e.Logger.Warn("Description RO2 list differs from RO2 summation",
			zap.String("path", path),
			zap.Int("description", len(descRO2)),
			zap.Int("summation", len(ro2)))
	}
	return d, nil
}

func (e *Extractor) variableBlock(path string, lines []string) ([]string, error) {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, e.Markers.Variable) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, &common.FormatError{Path: path, Marker: e.Markers.Variable, Msg: "species block not found"}
	}
	end, err := e.terminatorFrom(path, lines, start)
	if err != nil {
		return nil, err
	}

	var names []string
	for i := start; i <= end; i++ {
		line := lines[i]
		if i == start {
			line = line[strings.Index(line, e.Markers.Variable)+len(e.Markers.Variable):]
		}
		if i == end {
			line = cutTerminator(line, e.Markers.Terminator)
		}
		names = append(names, strings.Fields(line)...)
	}
	return names, nil
}

func (e *Extractor) ro2Block(path string, lines []string) ([]string, error) {
	start := -1
	var loc []int
	for i, line := range lines {
		if loc = e.ro2Assign.FindStringIndex(line); loc != nil {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, &common.FormatError{Path: path, Marker: e.Markers.RO2Assignment, Msg: "RO2 assignment not found"}
	}
	end, err := e.terminatorFrom(path, lines, start)
	if err != nil {
		return nil, err
	}

	var names []string
	for i := start; i <= end; i++ {
		line := lines[i]
		if i == start {
			line = line[loc[1]:]
		}
		if i == end {
			line = cutTerminator(line, e.Markers.Terminator)
		}
		for _, tok := range strings.Split(line, "+") {
			if tok = strings.TrimSpace(tok); tok != "" {
				names = append(names, tok)
			}
		}
	}
	return names, nil
}

// terminatorFrom returns the index of the first line at or after start that
// holds the terminator. The start line itself may close the block.
func (e *Extractor) terminatorFrom(path string, lines []string, start int) (int, error) {
	for i := start; i < len(lines); i++ {
		if strings.Contains(lines[i], e.Markers.Terminator) {
			return i, nil
		}
	}
	return -1, &common.FormatError{Path: path, Line: start + 1, Marker: e.Markers.Terminator, Msg: "block is not terminated"}
}

func cutTerminator(line, term string) string {
	if i := strings.Index(line, term); i >= 0 {
		return line[:i]
	}
	return line
}
