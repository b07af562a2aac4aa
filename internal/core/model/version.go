package model

import "time"

// MatchPolicy decides which row wins when a lookup key appears more than once.
type MatchPolicy string

const (
	FirstMatch MatchPolicy = "first-match"
	LastMatch  MatchPolicy = "last-match"
)

// ParseMatchPolicy maps "first-match" to FirstMatch and anything else to LastMatch.
func ParseMatchPolicy(s string) MatchPolicy {
	if MatchPolicy(s) == FirstMatch {
		return FirstMatch
	}
	return LastMatch
}

// VersionResult is everything one mechanism version's check produced.
type VersionResult struct {
	RunID             string           `json:"run_id"`
	Version           string           `json:"version"`
	StartedAt         time.Time        `json:"started_at"`
	Duration          time.Duration    `json:"duration"`
	Species           []string         `json:"species"`
	ClassifiedRO2     []string         `json:"classified_ro2"`
	DeclaredRO2       []string         `json:"declared_ro2"`
	Description       *Description     `json:"description,omitempty"`
	Conflicts         []ConflictReport `json:"conflicts"`
	TranslationMisses []string         `json:"translation_misses"`
	Err               error            `json:"-"`
	Error             string           `json:"error,omitempty"`
}

// ConflictCount sums both directions over every category.
func (r *VersionResult) ConflictCount() int {
	n := 0
	for _, c := range r.Conflicts {
		n += c.Count()
	}
	return n
}

// Conflict returns the report for category c, if that comparison ran.
func (r *VersionResult) Conflict(c Category) (ConflictReport, bool) {
	for _, rep := range r.Conflicts {
		if rep.Category == c {
			return rep, true
		}
	}
	return ConflictReport{}, false
}
