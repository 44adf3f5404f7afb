package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/heuristics"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/manifest"
)

func sessionModesOf(extDir string) []string {
	m, _ := manifest.Read(extDir)
	if m == nil {
		return nil
	}
	return m.SessionModes
}

func printLines(lines []string) {
	for _, line := range lines {
		fmt.Println(line)
	}
}

var lifecycleCmd = &cobra.Command{
	Use:   "lifecycle EXTENSION_DIR",
	Short: "Run the enable/disable lifecycle heuristic checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printLines(heuristics.Lifecycle(args[0], sessionModesOf(args[0])))
		return nil
	},
}

var qualityCmd = &cobra.Command{
	Use:   "quality EXTENSION_DIR",
	Short: "Run the code-quality single-file heuristic checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printLines(heuristics.Quality(args[0], sessionModesOf(args[0])))
		return nil
	},
}

var metadataCmd = &cobra.Command{
	Use:   "metadata EXTENSION_DIR",
	Short: "Validate metadata.json content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printLines(heuristics.Metadata(args[0]))
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init EXTENSION_DIR",
	Short: "Run module-scope and constructor side-effect checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printLines(heuristics.Init(args[0]))
		return nil
	},
}

var asyncCmd = &cobra.Command{
	Use:   "async EXTENSION_DIR",
	Short: "Run async/cancellable usage checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printLines(heuristics.Async(args[0]))
		return nil
	},
}

var cssCmd = &cobra.Command{
	Use:   "css EXTENSION_DIR",
	Short: "Run stylesheet scoping checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printLines(heuristics.CSS(args[0]))
		return nil
	},
}

var gobjectCmd = &cobra.Command{
	Use:   "gobject EXTENSION_DIR",
	Short: "Run GObject subclass checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printLines(heuristics.GObject(args[0]))
		return nil
	},
}

var prefsCmd = &cobra.Command{
	Use:   "prefs EXTENSION_DIR",
	Short: "Run preferences window checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printLines(heuristics.Prefs(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lifecycleCmd)
	rootCmd.AddCommand(qualityCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(asyncCmd)
	rootCmd.AddCommand(cssCmd)
	rootCmd.AddCommand(gobjectCmd)
	rootCmd.AddCommand(prefsCmd)
}
