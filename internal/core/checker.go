package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/mechcheck/internal/config"
	"github.com/agenthands/mechcheck/internal/core/extraction"
	"github.com/agenthands/mechcheck/internal/core/model"
	"github.com/agenthands/mechcheck/internal/core/reconcile"
	"github.com/agenthands/mechcheck/internal/core/table"
	"github.com/agenthands/mechcheck/internal/core/translate"
)

// Sink receives the aggregated results of a run.
type Sink interface {
	Publish(ctx context.Context, results []*model.VersionResult) error
}

// Checker runs the consistency pipeline for mechanism versions.
type Checker struct {
	Tables      *table.Cache
	Reconciler  *reconcile.Reconciler
	Logger      *zap.Logger
	Sinks       []Sink
	Concurrency int

	RunIDGenerator func() string
}

func NewChecker(tables *table.Cache, logger *zap.Logger, sinks ...Sink) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tables == nil {
		tables = table.NewCache(logger)
	}
	return &Checker{
		Tables:         tables,
		Reconciler:     reconcile.NewReconciler(logger),
		Logger:         logger,
		Sinks:          sinks,
		Concurrency:    1,
		RunIDGenerator: func() string { return uuid.New().String() },
	}
}

// Run checks one version. The error is also stored on the result so a failed
// version can be reported next to the successful ones.
func (c *Checker) Run(ctx context.Context, v config.VersionConfig) (*model.VersionResult, error) {
	res := &model.VersionResult{
		RunID:     c.RunIDGenerator(),
		Version:   v.Name,
		StartedAt: time.Now().UTC(),
	}
	logger := c.Logger.With(zap.String("version", v.Name), zap.String("run_id", res.RunID))

	err := c.run(ctx, v, res, logger)
	res.Duration = time.Since(res.StartedAt)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		logger.Error("Version check failed", zap.Error(err))
		return res, err
	}

	logger.Info("Version checked",
		zap.Int("species", len(res.Species)),
		zap.Int("classified_ro2", len(res.ClassifiedRO2)),
		zap.Int("declared_ro2", len(res.DeclaredRO2)),
		zap.Int("conflicts", res.ConflictCount()),
		zap.Duration("took", res.Duration))
	return res, nil
}

func (c *Checker) run(ctx context.Context, v config.VersionConfig, res *model.VersionResult, logger *zap.Logger) error {
	tbl, err := c.Tables.Get(v.Path(v.Database), v.Markers.Separator)
	if err != nil {
		return fmt.Errorf("failed to load translation table: %w", err)
	}

	ext, err := extraction.NewExtractor(v.Markers, logger)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	res.Species, err = ext.Species(v.Path(v.Mechanism), v.Mode())
	if err != nil {
		return fmt.Errorf("failed to extract species: %w", err)
	}

	tr := translate.NewTranslator(tbl, v.Policy(), logger)
	cls := translate.NewClassifier(tr, v.Primary(), v.Structural())
	res.ClassifiedRO2, err = cls.Classify(res.Species)
	if err != nil {
		return fmt.Errorf("failed to classify RO2: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	res.DeclaredRO2, err = ext.Summation(v.Path(v.Summation))
	if err != nil {
		return fmt.Errorf("failed to extract RO2 summation: %w", err)
	}
	res.Conflicts = append(res.Conflicts,
		c.Reconciler.Compare(v.Name, model.CategoryRO2Summation, res.ClassifiedRO2, res.DeclaredRO2))

	dbNames, err := tbl.Column(v.Primary())
	if err != nil {
		return fmt.Errorf("failed to read database column: %w", err)
	}
	res.Conflicts = append(res.Conflicts,
		c.Reconciler.MissingOnly(v.Name, model.CategoryDatabase, res.Species, dbNames))

	if v.Description != "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		desc, err := ext.Description(v.Path(v.Description), res.Species, res.DeclaredRO2)
		if err != nil {
			return fmt.Errorf("failed to extract description: %w", err)
		}
		res.Description = desc
		if desc.SpeciesDiffer {
			res.Conflicts = append(res.Conflicts,
				c.Reconciler.Compare(v.Name, model.CategoryDescriptionSpecies, res.Species, desc.Species))
		}
		if desc.RO2Differ {
			res.Conflicts = append(res.Conflicts,
				c.Reconciler.Compare(v.Name, model.CategoryDescriptionRO2, res.DeclaredRO2, desc.RO2))
		}
	}

	res.TranslationMisses = tr.Misses()
	if len(res.TranslationMisses) > 0 {
		logger.Warn("Species without structural translation",
			zap.Int("count", len(res.TranslationMisses)),
			zap.Strings("species", res.TranslationMisses))
	}
	return nil
}

// RunAll checks every version, at most Concurrency at a time, and returns
// results in input order. A failing version does not stop the others.
func (c *Checker) RunAll(ctx context.Context, versions []config.VersionConfig) []*model.VersionResult {
	results := make([]*model.VersionResult, len(versions))

	limit := c.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, v := range versions {
		g.Go(func() error {
			results[i], _ = c.Run(gctx, v)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Publish hands results to every sink. All sinks run; the first error is returned.
func (c *Checker) Publish(ctx context.Context, results []*model.VersionResult) error {
	var first error
	for _, s := range c.Sinks {
		if err := s.Publish(ctx, results); err != nil {
			c.Logger.Error("Sink failed", zap.String("sink", fmt.Sprintf("%T", s)), zap.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}
