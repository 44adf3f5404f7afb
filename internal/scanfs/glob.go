package scanfs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob expands a rule's scope pattern (spec §4.2/§4.3), which may contain a
// recursive "**" segment, against root. Matches are returned as paths
// relative to root, sorted, directories excluded. A bare filename with no
// separator (e.g. "stylesheet.css") also matches directly at root.
func Glob(root, pattern string) ([]string, error) {
	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range matches {
		skip := false
		for _, seg := range strings.Split(filepath.Dir(m), "/") {
			if SkipDirs[seg] {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		info, err := os.Stat(filepath.Join(root, m))
		if err != nil || info.IsDir() {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}
