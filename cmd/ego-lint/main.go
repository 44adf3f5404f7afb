// Command ego-lint is a multi-pass static analyzer for GNOME Shell extension
// bundles, predicting the outcome of a centralized add-on store review.
package main

import (
	"fmt"
	"os"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
