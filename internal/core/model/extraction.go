package model

// ExtractMode selects how the DEFVAR species list is located.
type ExtractMode string

const (
	// ExtractBounded reads every line between the #DEFVAR sentinel and the
	// last IGNORE line.
	ExtractBounded ExtractMode = "bounded"
	// ExtractScan keeps any line holding the IGNORE token, anywhere in the file.
	ExtractScan ExtractMode = "scan"
)

// Markers are the sentinel tokens the extractors look for.
type Markers struct {
	Defvar        string `toml:"defvar" yaml:"defvar" json:"defvar"`
	Ignore        string `toml:"ignore" yaml:"ignore" json:"ignore"`
	Concentration string `toml:"concentration" yaml:"concentration" json:"concentration"`
	SpeciesPrefix string `toml:"species_prefix" yaml:"species_prefix" json:"species_prefix"`
	Continuation  string `toml:"continuation" yaml:"continuation" json:"continuation"`
	Variable      string `toml:"variable" yaml:"variable" json:"variable"`
	Terminator    string `toml:"terminator" yaml:"terminator" json:"terminator"`
	RO2Assignment string `toml:"ro2_assignment" yaml:"ro2_assignment" json:"ro2_assignment"`
	Separator     string `toml:"separator" yaml:"separator" json:"separator"`
}

// Description is what the mechanism-description extractor returns.
type Description struct {
	Species       []string `json:"species"`
	RO2           []string `json:"ro2"`
	SpeciesDiffer bool     `json:"species_differ"`
	RO2Differ     bool     `json:"ro2_differ"`
}

// DefaultMarkers are the tokens used by the MCM KPP and FACSIMILE exports.
func DefaultMarkers() Markers {
	return Markers{
		Defvar:        "#DEFVAR",
		Ignore:        "IGNORE",
		Concentration: "C(",
		SpeciesPrefix: "C(ind_",
		Continuation:  "&",
		Variable:      "VARIABLE",
		Terminator:    ";",
		RO2Assignment: `\bRO2\s*=`,
		Separator:     "&",
	}
}

// WithDefaults fills every empty field from DefaultMarkers.
func (m Markers) WithDefaults() Markers {
	d := DefaultMarkers()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&m.Defvar, d.Defvar)
	fill(&m.Ignore, d.Ignore)
	fill(&m.Concentration, d.Concentration)
	fill(&m.SpeciesPrefix, d.SpeciesPrefix)
	fill(&m.Continuation, d.Continuation)
	fill(&m.Variable, d.Variable)
	fill(&m.Terminator, d.Terminator)
	fill(&m.RO2Assignment, d.RO2Assignment)
	fill(&m.Separator, d.Separator)
	return m
}
