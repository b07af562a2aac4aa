package driver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/core/model"
)

// GraphSink exports check results as (:Version)-[:DECLARES|CONFLICT]->(:Species).
// Each publish replaces the edges of the versions it carries.
type GraphSink struct {
	Driver GraphDriver
	Logger *zap.Logger
}

func NewGraphSink(d GraphDriver, logger *zap.Logger) *GraphSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphSink{Driver: d, Logger: logger}
}

// ConflictRow is one CONFLICT edge read back from the graph.
type ConflictRow struct {
	Species   string `json:"species"`
	Category  string `json:"category"`
	Direction string `json:"direction"`
}

func (s *GraphSink) Publish(ctx context.Context, results []*model.VersionResult) error {
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := s.saveVersion(ctx, r); err != nil {
			return fmt.Errorf("failed to export version %s: %w", r.Version, err)
		}
	}
	return nil
}

func (s *GraphSink) saveVersion(ctx context.Context, r *model.VersionResult) error {
	_, err := s.Driver.ExecuteQuery(ctx, SaveVersionQuery, map[string]interface{}{
		"name":           r.Version,
		"run_id":         r.RunID,
		"checked_at":     r.StartedAt.Format(time.RFC3339),
		"species_count":  len(r.Species),
		"conflict_count": r.ConflictCount(),
		"error":          r.Error,
	})
	if err != nil {
		return err
	}

	if _, err := s.Driver.ExecuteQuery(ctx, ClearVersionEdgesQuery, map[string]interface{}{"name": r.Version}); err != nil {
		return err
	}
	if r.Err != nil {
		return nil
	}

	if species := speciesParams(r); len(species) > 0 {
		_, err = s.Driver.ExecuteQuery(ctx, SaveSpeciesQuery, map[string]interface{}{
			"version": r.Version,
			"species": species,
		})
		if err != nil {
			return err
		}
	}

	if conflicts := conflictParams(r); len(conflicts) > 0 {
		_, err = s.Driver.ExecuteQuery(ctx, SaveConflictsQuery, map[string]interface{}{
			"version":   r.Version,
			"run_id":    r.RunID,
			"conflicts": conflicts,
		})
		if err != nil {
			return err
		}
	}

	s.Logger.Debug("Exported version to graph", zap.String("version", r.Version))
	return nil
}

// Conflicts reads back the CONFLICT edges of a version.
func (s *GraphSink) Conflicts(ctx context.Context, version string) ([]ConflictRow, error) {
	res, err := s.Driver.ExecuteQuery(ctx, GetVersionConflictsQuery, map[string]interface{}{"version": version})
	if err != nil {
		return nil, err
	}

	var rows []ConflictRow
	for _, rec := range res.Records {
		species, _ := rec.Get("species")
		category, _ := rec.Get("category")
		direction, _ := rec.Get("direction")
		rows = append(rows, ConflictRow{
			Species:   asString(species),
			Category:  asString(category),
			Direction: asString(direction),
		})
	}
	return rows, nil
}

func speciesParams(r *model.VersionResult) []map[string]interface{} {
	classified := toSet(r.ClassifiedRO2)
	declared := toSet(r.DeclaredRO2)
	seen := make(map[string]bool, len(r.Species))

	out := make([]map[string]interface{}, 0, len(r.Species))
	for _, name := range r.Species {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, map[string]interface{}{
			"name":       name,
			"classified": classified[name],
			"declared":   declared[name],
		})
	}
	return out
}

func conflictParams(r *model.VersionResult) []map[string]interface{} {
	var out []map[string]interface{}
	add := func(names []string, category model.Category, direction string) {
		for _, name := range names {
			if name == "" {
				continue
			}
			out = append(out, map[string]interface{}{
				"species":   name,
				"category":  string(category),
				"direction": direction,
			})
		}
	}
	for _, c := range r.Conflicts {
		add(c.Missing, c.Category, c.Category.MissingLabel())
		add(c.Extra, c.Category, c.Category.ExtraLabel())
	}
	return out
}

func toSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
