package manifest

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Overrides is an optional companion file, .ego-lint.yaml, living alongside
// an extension's own source, listing heuristic checks to disable and extra
// directories to ignore. LoadOverrides and Disabled only decode and query
// it; no command calls them, so the file does not change which checks run
// or which directories are walked. This is not
// part of the rule store format (internal/rules) and is free to use a
// general YAML decoder: it's a small typed struct, not a line-oriented
// protocol whose exact parsing semantics this project controls.
type Overrides struct {
	DisabledChecks []string `yaml:"disabled-checks"`
	IgnoreDirs     []string `yaml:"ignore-dirs"`
}

// LoadOverrides reads extDir/.ego-lint.yaml if present. A missing file is
// not an error; it just means no overrides apply.
func LoadOverrides(extDir string) (*Overrides, error) {
	path := filepath.Join(extDir, ".ego-lint.yaml")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Overrides{}, nil
	}
	if err != nil {
		return nil, err
	}

	var o Overrides
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Disabled reports whether a check name was disabled by the override file.
func (o *Overrides) Disabled(check string) bool {
	for _, c := range o.DisabledChecks {
		if c == check {
			return true
		}
	}
	return false
}
