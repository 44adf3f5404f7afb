package heuristics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
)

var uuidFormatRe = regexp.MustCompile(`^[a-zA-Z0-9._@-]+$`)

var requiredMetadataFields = []string{"uuid", "name", "description", "shell-version"}

// Metadata runs the metadata.json content checks, grounded on
// check-metadata.py. This is a broader content validator than the narrow
// four-field Manifest reader (internal/manifest, component E) — it exists as
// a SPEC_FULL supplement, not part of the core pattern/ownership pipeline.
func Metadata(extDir string) []string {
	e := &finding.Emitter{}
	path := filepath.Join(extDir, "metadata.json")

	raw, err := os.ReadFile(path)
	if err != nil {
		e.Emitf(finding.Fail, "metadata/exists", "metadata.json not found")
		return e.Lines()
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		e.Emitf(finding.Fail, "metadata/valid-json", fmt.Sprintf("metadata.json is not valid JSON: %v", err))
		return e.Lines()
	}
	e.Emitf(finding.Pass, "metadata/valid-json", "metadata.json is valid JSON")

	var missing []string
	for _, field := range requiredMetadataFields {
		if _, ok := doc[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		e.Emitf(finding.Fail, "metadata/required-fields", fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", ")))
	} else {
		e.Emitf(finding.Pass, "metadata/required-fields", "all required fields present")
	}

	uuid, _ := doc["uuid"].(string)
	if uuid != "" {
		if !uuidFormatRe.MatchString(uuid) {
			e.Emitf(finding.Fail, "metadata/uuid-format", fmt.Sprintf("uuid %q contains characters outside [a-zA-Z0-9._@-]", uuid))
		} else {
			e.Emitf(finding.Pass, "metadata/uuid-format", "uuid format OK")
		}

		dirName := filepath.Base(extDir)
		if dirName != uuid {
			e.Emitf(finding.Fail, "metadata/uuid-matches-dir", fmt.Sprintf("uuid %q does not match directory name %q", uuid, dirName))
		} else {
			e.Emitf(finding.Pass, "metadata/uuid-matches-dir", "uuid matches directory name")
		}

		if strings.HasSuffix(uuid, "@gnome.org") {
			e.Emitf(finding.Fail, "metadata/uuid-no-gnome-org", "uuid uses the reserved @gnome.org namespace")
		} else {
			e.Emitf(finding.Pass, "metadata/uuid-no-gnome-org", "uuid does not use the reserved @gnome.org namespace")
		}
	}

	if sv, ok := doc["shell-version"]; ok {
		if _, isList := sv.([]interface{}); !isList {
			e.Emitf(finding.Fail, "metadata/shell-version-array", "shell-version must be a list")
		} else {
			e.Emitf(finding.Pass, "metadata/shell-version-array", "shell-version is a list")
			if !containsString(sv, "48") {
				e.Emitf(finding.Warn, "metadata/shell-version-current", "shell-version does not include the current GNOME release (48)")
			}
		}
	}

	if sm, ok := doc["session-modes"]; ok {
		if list, isList := sm.([]interface{}); isList && len(list) == 1 {
			if s, ok := list[0].(string); ok && s == "user" {
				e.Emitf(finding.Warn, "metadata/session-modes", `session-modes: ["user"] is the default and redundant to declare`)
			}
		}
	}

	if schema, ok := doc["settings-schema"].(string); ok && schema != "" {
		if !strings.HasPrefix(schema, "org.gnome.shell.extensions.") {
			e.Emitf(finding.Fail, "metadata/settings-schema", fmt.Sprintf("settings-schema %q does not start with org.gnome.shell.extensions.", schema))
		} else {
			e.Emitf(finding.Pass, "metadata/settings-schema", "settings-schema prefix OK")
		}
	}

	return e.Lines()
}

func containsString(v interface{}, want string) bool {
	list, ok := v.([]interface{})
	if !ok {
		return false
	}
	for _, item := range list {
		if s, ok := item.(string); ok && strings.HasPrefix(s, want) {
			return true
		}
	}
	return false
}
