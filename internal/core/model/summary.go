package model

// VersionSummary is the per-version line of the aggregate report.
type VersionSummary struct {
	Version       string `json:"version"`
	Species       int    `json:"species"`
	ClassifiedRO2 int    `json:"classified_ro2"`
	DeclaredRO2   int    `json:"declared_ro2"`
	Conflicts     int    `json:"conflicts"`
	Misses        int    `json:"translation_misses"`
	Error         string `json:"error,omitempty"`
}

// Drift lists what changed between two consecutive versions.
type Drift struct {
	From           string   `json:"from"`
	To             string   `json:"to"`
	SpeciesAdded   []string `json:"species_added"`
	SpeciesRemoved []string `json:"species_removed"`
	RO2Added       []string `json:"ro2_added"`
	RO2Removed     []string `json:"ro2_removed"`
}

// Aggregate is the cross-version report handed to sinks.
type Aggregate struct {
	Versions       []VersionSummary `json:"versions"`
	Drift          []Drift          `json:"drift"`
	TotalConflicts int              `json:"total_conflicts"`
	FailedVersions int              `json:"failed_versions"`
}
