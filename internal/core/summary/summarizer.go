package summary

import (
	"github.com/agenthands/mechcheck/internal/core/model"
	"github.com/agenthands/mechcheck/internal/core/reconcile"
)

// Summarize builds the aggregate report over results, which must be in
// version order. Drift is computed between consecutive successful versions.
func Summarize(results []*model.VersionResult) model.Aggregate {
	agg := model.Aggregate{
		Versions: make([]model.VersionSummary, 0, len(results)),
		Drift:    []model.Drift{},
	}

	var prev *model.VersionResult
	for _, r := range results {
		if r == nil {
			continue
		}
		agg.Versions = append(agg.Versions, SummarizeVersion(r))
		if r.Err != nil {
			agg.FailedVersions++
			continue
		}
		agg.TotalConflicts += r.ConflictCount()
		if prev != nil {
			agg.Drift = append(agg.Drift, Diff(prev, r))
		}
		prev = r
	}
	return agg
}

func SummarizeVersion(r *model.VersionResult) model.VersionSummary {
	s := model.VersionSummary{
		Version:       r.Version,
		Species:       len(r.Species),
		ClassifiedRO2: len(r.ClassifiedRO2),
		DeclaredRO2:   len(r.DeclaredRO2),
		Conflicts:     r.ConflictCount(),
		Misses:        len(r.TranslationMisses),
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	return s
}

// Diff compares the species and declared RO2 lists of two versions.
func Diff(from, to *model.VersionResult) model.Drift {
	return model.Drift{
		From:           from.Version,
		To:             to.Version,
		SpeciesAdded:   reconcile.Conflicts(from.Species, to.Species),
		SpeciesRemoved: reconcile.Conflicts(to.Species, from.Species),
		RO2Added:       reconcile.Conflicts(from.DeclaredRO2, to.DeclaredRO2),
		RO2Removed:     reconcile.Conflicts(to.DeclaredRO2, from.DeclaredRO2),
	}
}
