package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/config"
	"github.com/agenthands/mechcheck/internal/core"
	"github.com/agenthands/mechcheck/internal/core/table"
	"github.com/agenthands/mechcheck/internal/driver"
	"github.com/agenthands/mechcheck/internal/report"
)

// DefaultConfigPath is used when neither a flag nor MECHCHECK_CONFIG is set.
const DefaultConfigPath = "config/config.toml"

// ConfigPath picks the config file: explicit path, then MECHCHECK_CONFIG, then
// the default.
func ConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("MECHCHECK_CONFIG"); p != "" {
		return p
	}
	return DefaultConfigPath
}

// LoadConfig loads the config file and applies environment overrides.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(ConfigPath(path))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

type Options struct {
	// WriteReports adds the report file sink.
	WriteReports bool
	// ExportGraph adds the Memgraph sink even when the config leaves it disabled.
	ExportGraph bool
}

// NewChecker wires a checker and its sinks. The returned cleanup closes any
// database connection and must always be called.
func NewChecker(ctx context.Context, cfg *config.Config, opts Options, logger *zap.Logger) (*core.Checker, func(), error) {
	var sinks []core.Sink
	cleanup := func() {}

	if opts.WriteReports {
		sinks = append(sinks, report.NewWriter(cfg.Report.Dir, cfg.Report.JSON, logger))
	}

	if opts.ExportGraph || cfg.Memgraph.Enabled {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to connect to Memgraph: %w", err)
		}
		cleanup = func() { _ = d.Close(context.Background()) }
		if err := d.BuildIndices(ctx); err != nil {
			return nil, cleanup, err
		}
		sinks = append(sinks, driver.NewGraphSink(d, logger))
	}

	c := core.NewChecker(table.NewCache(logger), logger, sinks...)
	c.Concurrency = cfg.Concurrency.Versions
	return c, cleanup, nil
}
