package summary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mechcheck/internal/core/model"
)

func TestSummarize(t *testing.T) {
	v31 := &model.VersionResult{
		Version:     "v3.1",
		Species:     []string{"CH4", "CH3O2", "OLD"},
		DeclaredRO2: []string{"CH3O2"},
		Conflicts: []model.ConflictReport{
			{Category: model.CategoryRO2Summation, Missing: []string{"X"}, HasMissing: true},
		},
	}
	broken := &model.VersionResult{Version: "v3.2", Err: errors.New("no table")}
	v331 := &model.VersionResult{
		Version:           "v3.3.1",
		Species:           []string{"CH4", "CH3O2", "C2H5O2"},
		ClassifiedRO2:     []string{"CH3O2", "C2H5O2"},
		DeclaredRO2:       []string{"CH3O2", "C2H5O2"},
		TranslationMisses: []string{"CH4"},
	}

	agg := Summarize([]*model.VersionResult{v31, broken, nil, v331})

	require.Len(t, agg.Versions, 3)
	assert.Equal(t, 1, agg.TotalConflicts)
	assert.Equal(t, 1, agg.FailedVersions)
	assert.Equal(t, "no table", agg.Versions[1].Error)
	assert.Equal(t, 1, agg.Versions[2].Misses)
	assert.Equal(t, 2, agg.Versions[2].ClassifiedRO2)

	require.Len(t, agg.Drift, 1, "failed versions are skipped for drift")
	d := agg.Drift[0]
	assert.Equal(t, "v3.1", d.From)
	assert.Equal(t, "v3.3.1", d.To)
	assert.Equal(t, []string{"C2H5O2"}, d.SpeciesAdded)
	assert.Equal(t, []string{"OLD"}, d.SpeciesRemoved)
	assert.Equal(t, []string{"C2H5O2"}, d.RO2Added)
	assert.Empty(t, d.RO2Removed)
}

func TestSummarize_Empty(t *testing.T) {
	agg := Summarize(nil)
	assert.Empty(t, agg.Versions)
	assert.Empty(t, agg.Drift)
	assert.Zero(t, agg.TotalConflicts)
}
