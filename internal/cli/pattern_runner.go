package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/manifest"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/pattern"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/rules"
)

var validateOnly bool

var patternRunnerCmd = &cobra.Command{
	Use:   "pattern-runner RULES_FILE EXTENSION_DIR",
	Short: "Apply the rule store's pattern rules against an extension",
	Args: func(cmd *cobra.Command, args []string) error {
		if validateOnly {
			return cobra.ExactArgs(1)(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesFile := args[0]

		rs, err := rules.Load(rulesFile)
		if err != nil {
			if diag != nil {
				diag.Error("pattern-runner: failed to load rule store %s: %v", rulesFile, err)
			}
			fmt.Println(mustLine("FAIL", "pattern-runner/args", fmt.Sprintf("could not read rule store: %v", err)))
			return nil
		}

		if validateOnly {
			for _, line := range rules.Report(rs) {
				fmt.Println(line)
			}
			if errs, _ := rules.Validate(rs); len(errs) > 0 {
				return fmt.Errorf("pattern-runner: validation failed")
			}
			return nil
		}

		extDir := args[1]
		m, _ := manifest.Read(extDir)
		var versions []int
		if m != nil {
			versions = m.ShellVersions
		}

		for _, line := range pattern.Run(extDir, rs, versions) {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	patternRunnerCmd.Flags().BoolVar(&validateOnly, "validate", false, "Validate the rule store instead of applying it")
	rootCmd.AddCommand(patternRunnerCmd)
}

func mustLine(status, ruleID, detail string) string {
	return fmt.Sprintf("%s|%s|%s", status, ruleID, detail)
}
