package cli

import (
	"github.com/spf13/cobra"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/config"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/diagnostics"
)

var (
	rulesPath string
	diagPath  string

	diag *diagnostics.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ego-lint",
	Short: "ego-lint - store-review predictor for GNOME Shell extensions",
	Long: `ego-lint is a multi-pass static analyzer for GNOME Shell extension
bundles distributed through a centralized add-on store. It runs a
declarative pattern rule store against extension source, reads and
cross-checks metadata.json, builds a cross-file resource ownership graph to
catch leaked signal handlers and timeouts, and runs a catalog of single-file
heuristic checks — all predicting what a store reviewer would flag, never
claiming certainty.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := diagPath
		if path == "" {
			cfg, err := config.Load(rulesPath, diagPath)
			if err != nil {
				return err
			}
			path = cfg.DiagPath
		}
		l, err := diagnostics.Open(path)
		if err != nil {
			return err
		}
		diag = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if diag != nil {
			diag.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to the rule store file (default: ~/.config/ego-lint/rules.yaml)")
	rootCmd.PersistentFlags().StringVar(&diagPath, "diag-log", "", "Path to the internal diagnostics log (default: ~/.config/ego-lint/diagnostics.jsonl)")
}

func Execute() error {
	return rootCmd.Execute()
}
