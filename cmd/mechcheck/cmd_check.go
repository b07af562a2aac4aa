package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/app"
	"github.com/agenthands/mechcheck/internal/config"
	"github.com/agenthands/mechcheck/internal/core"
	"github.com/agenthands/mechcheck/internal/core/summary"
	"github.com/agenthands/mechcheck/internal/report"
	"github.com/agenthands/mechcheck/internal/watch"
)

var errConflicts = errors.New("conflicts found")

var (
	checkOnly           []string
	checkReportDir      string
	checkJSON           bool
	checkExportGraph    bool
	checkWatch          bool
	checkFailOnConflict bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every configured mechanism version and write reports",
	Long: `Runs the consistency pipeline for each mechanism version:
  1. Load the species database
  2. Extract DEFVAR species and classify RO2 from GECKO-A notation
  3. Compare against the declared RO2 summation
  4. Compare against the database and the mechanism description

Example:
  mechcheck check --only 'v3.3*' --report-dir out`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkOnly, "only", nil, "Glob patterns selecting version names")
	checkCmd.Flags().StringVar(&checkReportDir, "report-dir", "", "Override the report directory")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Also write results.json")
	checkCmd.Flags().BoolVar(&checkExportGraph, "export-graph", false, "Export results to Memgraph")
	checkCmd.Flags().BoolVar(&checkWatch, "watch", false, "Re-run when an input file changes")
	checkCmd.Flags().BoolVar(&checkFailOnConflict, "fail-on-conflict", true, "Exit non-zero when conflicts or failed versions remain")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if checkReportDir != "" {
		cfg.Report.Dir = checkReportDir
	}
	if checkJSON {
		cfg.Report.JSON = true
	}

	versions, err := selectVersions(cfg.Versions, checkOnly)
	if err != nil {
		return err
	}

	checker, cleanup, err := app.NewChecker(ctx, cfg, app.Options{WriteReports: true, ExportGraph: checkExportGraph}, logger)
	defer cleanup()
	if err != nil {
		return err
	}

	err = checkOnce(ctx, cmd, checker, versions)
	if !checkWatch {
		return err
	}
	if err != nil && !errors.Is(err, errConflicts) {
		logger.Error("Check failed", zap.Error(err))
	}

	var files []string
	for _, v := range versions {
		files = append(files, v.Files()...)
	}
	w := watch.New(files, func(ctx context.Context, changed []string) {
		logger.Info("Re-running check", zap.Strings("changed", changed))
		// The database may be among the changed files.
		checker.Tables.Reset()
		if err := checkOnce(ctx, cmd, checker, versions); err != nil && !errors.Is(err, errConflicts) {
			logger.Error("Check failed", zap.Error(err))
		}
	}, logger)
	return w.Run(ctx)
}

func checkOnce(ctx context.Context, cmd *cobra.Command, checker *core.Checker, versions []config.VersionConfig) error {
	results := checker.RunAll(ctx, versions)
	if err := checker.Publish(ctx, results); err != nil {
		return err
	}

	agg := summary.Summarize(results)
	if err := report.WriteSummary(cmd.OutOrStdout(), agg); err != nil {
		return err
	}

	if checkFailOnConflict && (agg.TotalConflicts > 0 || agg.FailedVersions > 0) {
		return fmt.Errorf("%w: %d conflicts, %d failed versions", errConflicts, agg.TotalConflicts, agg.FailedVersions)
	}
	return nil
}

// selectVersions keeps versions whose name matches any pattern. No patterns
// keeps everything.
func selectVersions(all []config.VersionConfig, patterns []string) ([]config.VersionConfig, error) {
	if len(patterns) == 0 {
		return all, nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("bad --only pattern %q", p)
		}
	}
	var out []config.VersionConfig
	for _, v := range all {
		for _, p := range patterns {
			ok, err := doublestar.Match(p, v.Name)
			if err != nil {
				return nil, fmt.Errorf("bad --only pattern %q: %w", p, err)
			}
			if ok {
				out = append(out, v)
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no version matches %v", patterns)
	}
	return out, nil
}

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List configured mechanism versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, v := range cfg.Versions {
			fmt.Fprintf(out, "%s\t%s\t%s\n", v.Name, v.ExtractMode, v.Policy())
			for _, f := range v.Files() {
				marker := ""
				if _, err := os.Stat(f); err != nil {
					marker = " (missing)"
				}
				fmt.Fprintf(out, "  %s%s\n", f, marker)
			}
		}
		return nil
	},
}
