package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/mechcheck/internal/app"
	"github.com/agenthands/mechcheck/internal/core/common"
	"github.com/agenthands/mechcheck/internal/core/model"
	"github.com/agenthands/mechcheck/internal/core/table"
	"github.com/agenthands/mechcheck/internal/core/translate"
)

var (
	translateVersion string
	translateFrom    string
	translateTo      string
	translateMass    bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [name...]",
	Short: "Translate species names between naming conventions",
	Long: `Looks names up in a version's species database. By default names are
translated from the primary (MCM) column to the structural (GECKO-A) column
and flagged when they classify as RO2.

Example:
  mechcheck translate --version v3.3.1 CH3O2 HCHO`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().StringVar(&translateVersion, "version", "", "Mechanism version (default: first configured)")
	translateCmd.Flags().StringVar(&translateFrom, "from", "", "Source column (default: version primary column)")
	translateCmd.Flags().StringVar(&translateTo, "to", "", "Target column (default: version structural column)")
	translateCmd.Flags().BoolVar(&translateMass, "mass", false, "Also print molar mass")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}

	v := cfg.Versions[0]
	if translateVersion != "" {
		var ok bool
		if v, ok = cfg.Version(translateVersion); !ok {
			return fmt.Errorf("unknown version %q", translateVersion)
		}
	}
	from, to := v.Primary(), v.Structural()
	if translateFrom != "" {
		from = model.Convention(translateFrom)
	}
	if translateTo != "" {
		to = model.Convention(translateTo)
	}

	tbl, err := table.Load(v.Path(v.Database), v.Markers.Separator)
	if err != nil {
		return err
	}
	tr := translate.NewTranslator(tbl, v.Policy(), logger)

	out := cmd.OutOrStdout()
	misses := 0
	for _, name := range args {
		got, err := tr.Translate(name, from, to)
		if errors.Is(err, common.ErrNotFound) {
			misses++
			fmt.Fprintf(out, "%s\t-\tnot found\n", name)
			continue
		}
		if err != nil {
			return err
		}

		line := fmt.Sprintf("%s\t%s", name, got)
		if to == v.Structural() && translate.IsPeroxy(got) {
			line += "\tRO2"
		}
		if translateMass {
			if row, err := tr.Row(name, from); err == nil {
				if mass, err := tbl.Mass(row, v.Mass()); err == nil {
					line += fmt.Sprintf("\t%.2f", mass)
				}
			}
		}
		fmt.Fprintln(out, line)
	}

	if misses > 0 {
		return fmt.Errorf("%d of %d names not found", misses, len(args))
	}
	return nil
}
