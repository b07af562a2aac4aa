package reconcile

import (
	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/core/model"
)

// Conflicts returns the elements of candidate that are absent from reference,
// in candidate order. Membership is exact and case-sensitive; duplicates in
// candidate are kept.
func Conflicts(reference, candidate []string) []string {
	ref := make(map[string]struct{}, len(reference))
	for _, name := range reference {
		ref[name] = struct{}{}
	}

	out := []string{}
	for _, name := range candidate {
		if _, ok := ref[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// Reconciler compares name lists and reports every conflicting entry on the
// diagnostics stream.
type Reconciler struct {
	Logger *zap.Logger
}

func NewReconciler(logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{Logger: logger}
}

// Compare checks candidate against reference in both directions. Missing holds
// names the candidate lacks, Extra names it should not contain.
func (r *Reconciler) Compare(version string, category model.Category, reference, candidate []string) model.ConflictReport {
	rep := model.ConflictReport{
		Version:  version,
		Category: category,
		Missing:  Conflicts(candidate, reference),
		Extra:    Conflicts(reference, candidate),
	}
	rep.HasMissing = len(rep.Missing) > 0
	rep.HasExtra = len(rep.Extra) > 0

	r.report(version, category.MissingLabel(), category, rep.Missing)
	r.report(version, category.ExtraLabel(), category, rep.Extra)
	return rep
}

// MissingOnly checks one direction: names in reference that candidate lacks.
func (r *Reconciler) MissingOnly(version string, category model.Category, reference, candidate []string) model.ConflictReport {
	rep := model.ConflictReport{
		Version:  version,
		Category: category,
		Missing:  Conflicts(candidate, reference),
		Extra:    []string{},
	}
	rep.HasMissing = len(rep.Missing) > 0

	r.report(version, category.MissingLabel(), category, rep.Missing)
	return rep
}

func (r *Reconciler) report(version, label string, category model.Category, names []string) {
	for _, name := range names {
		r.Logger.Warn("Conflict",
			zap.String("version", version),
			zap.String("category", string(category)),
			zap.String("direction", label),
			zap.String("species", name))
	}
}
