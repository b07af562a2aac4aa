package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/core/model"
	"github.com/agenthands/mechcheck/internal/core/summary"
)

const (
	SummaryFile = "summary.txt"
	JSONFile    = "results.json"
)

// Writer is the file sink: one file per version and comparison category, a
// summary file, and optionally a JSON dump of every result.
type Writer struct {
	Dir    string
	JSON   bool
	Logger *zap.Logger
}

func NewWriter(dir string, writeJSON bool, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{Dir: dir, JSON: writeJSON, Logger: logger}
}

// FileName is the report file for one version and category.
func FileName(version string, category model.Category) string {
	return fmt.Sprintf("%s_%s.txt", sanitize(version), category)
}

func (w *Writer) Publish(ctx context.Context, results []*model.VersionResult) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report dir '%s': %w", w.Dir, err)
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.writeVersion(r); err != nil {
			return err
		}
	}

	agg := summary.Summarize(results)
	if err := w.writeFile(SummaryFile, func(out io.Writer) error {
		return WriteSummary(out, agg)
	}); err != nil {
		return err
	}

	if w.JSON {
		if err := w.writeFile(JSONFile, func(out io.Writer) error {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Results []*model.VersionResult `json:"results"`
				Summary model.Aggregate        `json:"summary"`
			}{results, agg})
		}); err != nil {
			return err
		}
	}

	w.Logger.Info("Reports written", zap.String("dir", w.Dir), zap.Int("conflicts", agg.TotalConflicts))
	return nil
}

// writeVersion replaces every report file of one version. Files of
// comparisons that did not run this time are removed, as are all category
// files of a failed version.
func (w *Writer) writeVersion(r *model.VersionResult) error {
	for _, cat := range model.Categories() {
		name := FileName(r.Version, cat)
		rep, ok := r.Conflict(cat)
		if r.Err != nil || !ok {
			if err := w.removeFile(name); err != nil {
				return err
			}
			continue
		}
		if err := w.writeFile(name, func(out io.Writer) error {
			return WriteConflicts(out, rep)
		}); err != nil {
			return err
		}
	}

	name := MissesFileName(r.Version)
	if r.Err != nil || len(r.TranslationMisses) == 0 {
		return w.removeFile(name)
	}
	return w.writeFile(name, func(out io.Writer) error {
		return writeLines(out, r.TranslationMisses)
	})
}

// MissesFileName lists the species of a version without a structural translation.
func MissesFileName(version string) string {
	return fmt.Sprintf("%s_translation_misses.txt", sanitize(version))
}

func (w *Writer) removeFile(name string) error {
	path := filepath.Join(w.Dir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale report '%s': %w", path, err)
	}
	return nil
}

func (w *Writer) writeFile(name string, fill func(io.Writer) error) error {
	path := filepath.Join(w.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report '%s': %w", path, err)
	}
	buf := bufio.NewWriter(f)
	if err := fill(buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report '%s': %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report '%s': %w", path, err)
	}
	return f.Close()
}

// WriteConflicts lists one comparison, missing names first, one per line.
func WriteConflicts(out io.Writer, rep model.ConflictReport) error {
	if _, err := fmt.Fprintf(out, "# %s %s\n", rep.Version, rep.Category); err != nil {
		return err
	}
	for _, name := range rep.Missing {
		if _, err := fmt.Fprintf(out, "%s: %s\n", rep.Category.MissingLabel(), name); err != nil {
			return err
		}
	}
	for _, name := range rep.Extra {
		if _, err := fmt.Fprintf(out, "%s: %s\n", rep.Category.ExtraLabel(), name); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints the per-version table followed by version drift.
func WriteSummary(out io.Writer, agg model.Aggregate) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSPECIES\tRO2 (FORMULA)\tRO2 (SUMMATION)\tCONFLICTS\tMISSES\tERROR")
	for _, v := range agg.Versions {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			v.Version, v.Species, v.ClassifiedRO2, v.DeclaredRO2, v.Conflicts, v.Misses, v.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\ntotal conflicts: %d\nfailed versions: %d\n", agg.TotalConflicts, agg.FailedVersions)

	for _, d := range agg.Drift {
		fmt.Fprintf(out, "\n## %s -> %s\n", d.From, d.To)
		writeDrift(out, "species added", d.SpeciesAdded)
		writeDrift(out, "species removed", d.SpeciesRemoved)
		writeDrift(out, "RO2 added", d.RO2Added)
		writeDrift(out, "RO2 removed", d.RO2Removed)
	}
	return nil
}

func writeDrift(out io.Writer, label string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(out, "%s (%d): %s\n", label, len(names), strings.Join(names, " "))
}

func writeLines(out io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(out, l); err != nil {
			return err
		}
	}
	return nil
}

func sanitize(version string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, version)
}
