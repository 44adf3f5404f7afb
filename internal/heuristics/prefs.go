package heuristics

import (
	"regexp"
	"strings"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

// Prefs runs the prefs.js-specific checks, grounded on check-prefs.py. This
// is the one heuristic family that wants prefs.js rather than excluding it.
func Prefs(extDir string) []string {
	e := &finding.Emitter{}
	raw, err := scanfs.ReadFile(extDir + "/prefs.js")
	if err != nil {
		e.Emitf(finding.Skip, "prefs/exists", "no prefs.js found")
		return e.Lines()
	}
	content := scanfs.StripComments(raw)

	hasWidget := regexp.MustCompile(`\bgetPreferencesWidget\b`).MatchString(content)
	hasFill := regexp.MustCompile(`\bfillPreferencesWindow\b`).MatchString(content)

	switch {
	case hasWidget && hasFill:
		e.Emitf(finding.Fail, "prefs/dual-prefs-pattern",
			"prefs.js defines both getPreferencesWidget() and fillPreferencesWindow() — use only fillPreferencesWindow() for GNOME 45+")
	case hasFill:
		e.Emitf(finding.Pass, "prefs/prefs-method", "prefs.js uses fillPreferencesWindow()")
	case hasWidget:
		e.Emitf(finding.Pass, "prefs/prefs-method", "prefs.js uses getPreferencesWidget()")
	default:
		e.Emitf(finding.Warn, "prefs/missing-prefs-method",
			"prefs.js does not define fillPreferencesWindow() or getPreferencesWidget()")
	}

	hasDefaultExport := regexp.MustCompile(`\bexport\s+default\s+class\b`).MatchString(content)
	if !hasDefaultExport {
		e.Emitf(finding.Warn, "prefs/default-export", "prefs.js missing 'export default class' — required for GNOME 45+")
	} else {
		e.Emitf(finding.Pass, "prefs/default-export", "prefs.js has a default export class")
		if regexp.MustCompile(`\bextends\s+ExtensionPreferences\b`).MatchString(content) {
			e.Emitf(finding.Pass, "prefs/extends-base", "prefs.js extends ExtensionPreferences")
		} else {
			e.Emitf(finding.Warn, "prefs/extends-base",
				"prefs.js default class does not extend ExtensionPreferences — required for GNOME 45+")
		}
	}

	if strings.Contains(raw, "resource:///org/gnome/shell/ui/") {
		e.Emitf(finding.Fail, "prefs/resource-path",
			"prefs.js uses the Shell UI resource path (resource:///org/gnome/shell/ui/) — Shell UI modules are not available in the preferences process")
	} else {
		e.Emitf(finding.Pass, "prefs/resource-path", "resource paths OK")
	}

	return e.Lines()
}
