// Package manifest reads an extension's metadata.json (component E, spec
// §4.5) and an optional companion override file.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
)

// Manifest exposes only the four fields the core analyzer consumes: the
// unique identifier, the compatible-host version list, the session-class
// list, and the declared description. Any other metadata.json content
// (settings-schema, url, gettext-domain, ...) is out of scope for the core
// reader — a broader metadata-content check lives in internal/heuristics.
type Manifest struct {
	UUID          string
	ShellVersions []int // parsed leading integers, e.g. "45" -> 45
	SessionModes  []string
	Description   string
}

var leadingInt = regexp.MustCompile(`^\d+`)

// Read parses extDir/metadata.json. It returns an error only when the file
// is absent or not valid JSON; callers at the CLI boundary turn that into a
// FAIL/SKIP finding rather than a process-fatal error (spec §7).
func Read(extDir string) (*Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(extDir, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	m := &Manifest{}
	if v, ok := doc["uuid"].(string); ok {
		m.UUID = v
	}
	if v, ok := doc["description"].(string); ok {
		m.Description = v
	}
	m.ShellVersions = stringListToInts(doc["shell-version"])
	m.SessionModes = toStringList(doc["session-modes"])

	return m, nil
}

func stringListToInts(v interface{}) []int {
	var out []int
	for _, s := range toStringList(v) {
		m := leadingInt.FindString(s)
		if m == "" {
			continue
		}
		n := 0
		for _, c := range m {
			n = n*10 + int(c-'0')
		}
		out = append(out, n)
	}
	return out
}

func toStringList(v interface{}) []string {
	switch t := v.(type) {
	case []interface{}:
		var out []string
		for _, x := range t {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	default:
		return nil
	}
}
