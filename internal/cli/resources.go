package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/config"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/ownership"
)

// resourcesCmd is the `<check-name> <extension-dir>` entry for the
// resource-tracking check (spec §7.3): it delegates graph construction to a
// sibling `ego-lint resource-graph --json` invocation under a wall-clock
// timeout, rather than building the graph in-process.
var resourcesCmd = &cobra.Command{
	Use:   "resources EXTENSION_DIR",
	Short: "Run the resource-tracking check via the resource-graph subprocess boundary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extDir := args[0]

		self, err := os.Executable()
		if err != nil {
			fmt.Println(mustLine("FAIL", "resources/args", fmt.Sprintf("could not resolve own binary path: %v", err)))
			return nil
		}

		cfg, err := config.Load(rulesPath, diagPath)
		timeout := config.DefaultSubprocessTimeout
		if err == nil {
			timeout = cfg.Scanner.SubprocessTimeout
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		lines := ownership.ReportViaSubprocess(ctx, self, extDir, timeout)
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
}
