package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/ownership"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

var graphJSON bool

var resourceGraphCmd = &cobra.Command{
	Use:   "resource-graph EXTENSION_DIR",
	Short: "Build the cross-file resource ownership graph and report orphans",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extDir := args[0]

		if !graphJSON {
			for _, line := range ownership.Report(extDir) {
				fmt.Println(line)
			}
			return nil
		}

		files, err := scanfs.JSFiles(extDir, true)
		if err != nil {
			return fmt.Errorf("resource-graph: %w", err)
		}

		var scans []*ownership.FileScan
		for _, rel := range files {
			fs, err := ownership.ScanFile(extDir, rel)
			if err != nil {
				continue
			}
			scans = append(scans, fs)
		}

		g := ownership.Build(scans)
		orphans := ownership.DetectOrphans(g)
		out := ownership.GraphJSON{
			FilesScanned: len(scans),
			Depth:        g.Depth,
			Orphans:      orphans,
		}

		enc := json.NewEncoder(os.Stdout)
		if term.IsTerminal(int(os.Stdout.Fd())) {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(out)
	},
}

func init() {
	resourceGraphCmd.Flags().BoolVar(&graphJSON, "json", false, "Emit the raw graph as JSON instead of finding lines")
	rootCmd.AddCommand(resourceGraphCmd)
}
