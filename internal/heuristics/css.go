package heuristics

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

var knownShellClasses = map[string]bool{
	"panel": true, "panel-button": true, "system-status-icon": true,
	"popup-menu": true, "popup-menu-item": true, "popup-separator-menu-item": true,
	"popup-sub-menu": true, "popup-menu-section": true,
	"quick-toggle": true, "quick-settings": true, "quick-settings-item": true,
	"message": true, "message-list": true, "notification": true,
	"overview": true, "workspace": true, "search-entry": true,
	"app-well-icon": true, "dash": true, "show-apps": true,
}

var cssClassRe = regexp.MustCompile(`(?m)^\s*\.([\w-]+)`)
var cssBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

// CSS runs the stylesheet scoping/importance heuristics, grounded on
// check-css.py.
func CSS(extDir string) []string {
	e := &finding.Emitter{}
	raw, err := scanfs.ReadFile(extDir + "/stylesheet.css")
	if err != nil {
		e.Emitf(finding.Skip, "css/scoping", "no stylesheet.css found")
		return e.Lines()
	}
	content := cssBlockComment.ReplaceAllString(raw, "")

	classes := map[string]bool{}
	for _, m := range cssClassRe.FindAllStringSubmatch(content, -1) {
		classes[m[1]] = true
	}

	var unscoped []string
	for cls := range classes {
		if !strings.Contains(cls, "-") && !strings.Contains(cls, "_") && !knownShellClasses[strings.ToLower(cls)] {
			unscoped = append(unscoped, cls)
		}
	}
	sort.Strings(unscoped)

	if len(unscoped) > 0 {
		names := unscoped
		if len(names) > 5 {
			names = names[:5]
		}
		var dotted []string
		for _, n := range names {
			dotted = append(dotted, "."+n)
		}
		e.Emitf(finding.Warn, "css/unscoped-class",
			fmt.Sprintf("found %d potentially unscoped CSS class(es): %s — add a namespace prefix to avoid conflicts", len(unscoped), strings.Join(dotted, ", ")))
	} else {
		e.Emitf(finding.Pass, "css/scoping", "CSS classes appear properly scoped")
	}

	count := len(regexp.MustCompile(`!important`).FindAllString(content, -1))
	if count > 0 {
		e.Emitf(finding.Warn, "css/important",
			fmt.Sprintf("found %d !important usage(s) in stylesheet.css — !important overrides Shell theme; prefer higher specificity", count))
	} else {
		e.Emitf(finding.Pass, "css/important", "no !important usage")
	}

	return e.Lines()
}
