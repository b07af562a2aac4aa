package model

// Category is one comparison axis of a version check.
type Category string

const (
	CategoryRO2Summation       Category = "ro2_summation"
	CategoryDescriptionSpecies Category = "description_species"
	CategoryDescriptionRO2     Category = "description_ro2"
	CategoryDatabase           Category = "database"
)

var categoryLabels = map[Category][2]string{
	CategoryRO2Summation:       {"missing in summation", "should not be in summation"},
	CategoryDescriptionSpecies: {"missing in description species", "should not be in description species"},
	CategoryDescriptionRO2:     {"missing in description RO2", "should not be in description RO2"},
	CategoryDatabase:           {"missing in database", "should not be in database"},
}

// Categories lists every category in report order.
func Categories() []Category {
	return []Category{
		CategoryRO2Summation,
		CategoryDescriptionSpecies,
		CategoryDescriptionRO2,
		CategoryDatabase,
	}
}

// MissingLabel describes names the reference has but the candidate source lacks.
func (c Category) MissingLabel() string {
	if l, ok := categoryLabels[c]; ok {
		return l[0]
	}
	return "missing in " + string(c)
}

// ExtraLabel describes names the candidate source has but the reference lacks.
func (c Category) ExtraLabel() string {
	if l, ok := categoryLabels[c]; ok {
		return l[1]
	}
	return "should not be in " + string(c)
}

// ConflictReport holds both directions of one comparison for one version.
type ConflictReport struct {
	Version    string   `json:"version"`
	Category   Category `json:"category"`
	Missing    []string `json:"missing"`
	Extra      []string `json:"extra"`
	HasMissing bool     `json:"has_missing"`
	HasExtra   bool     `json:"has_extra"`
}

func (r ConflictReport) HasConflict() bool { return r.HasMissing || r.HasExtra }

func (r ConflictReport) Count() int { return len(r.Missing) + len(r.Extra) }
