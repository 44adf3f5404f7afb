package heuristics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

var gioAsyncPatterns = []*regexp.Regexp{
	regexp.MustCompile(`load_contents_async\s*\(`),
	regexp.MustCompile(`send_and_read_async\s*\(`),
	regexp.MustCompile(`read_bytes_async\s*\(`),
	regexp.MustCompile(`write_bytes_async\s*\(`),
	regexp.MustCompile(`query_info_async\s*\(`),
	regexp.MustCompile(`enumerate_children_async\s*\(`),
	regexp.MustCompile(`replace_contents_async\s*\(`),
}

// Async runs the async-safety/cancellation checks, grounded on
// check-async.py.
func Async(extDir string) []string {
	e := &finding.Emitter{}
	files, err := scanfs.JSFiles(extDir, true)
	if err != nil || len(files) == 0 {
		e.Emitf(finding.Skip, "async/no-js", "no JavaScript files found")
		return e.Lines()
	}

	checkCancellableUsage(e, extDir, files)
	checkAsyncInlineCancellable(e, extDir, files)
	checkDisableCancellation(e, extDir)

	return e.Lines()
}

func checkCancellableUsage(e *finding.Emitter, extDir string, files []string) {
	hasAsync, hasCancellable := false, false
	var locations []string

	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		clean := scanfs.StripComments(raw)
		if strings.Contains(clean, "Gio.Cancellable") {
			hasCancellable = true
		}
		for _, pat := range gioAsyncPatterns {
			for _, loc := range pat.FindAllStringIndex(clean, -1) {
				hasAsync = true
				locations = append(locations, fmt.Sprintf("%s:%d", rel, scanfs.LineOf(clean, loc[0])))
			}
		}
	}

	switch {
	case hasAsync && !hasCancellable:
		n := len(locations)
		if n > 3 {
			locations = locations[:3]
		}
		e.Emitf(finding.Warn, "async/no-cancellable",
			fmt.Sprintf("Gio async calls at %s without Gio.Cancellable — async operations should be cancellable via disable()", strings.Join(locations, ", ")))
	case hasAsync:
		e.Emitf(finding.Pass, "async/cancellable-used", "Gio.Cancellable used with async operations")
	}
}

var cancellableParamRe = regexp.MustCompile(`(?:async\s+)?\w+\s*\(([^)]*)\)\s*\{`)
var cancellableNames = map[string]bool{"iscancelled": true, "cancellable": true, "cancel": true}

func checkAsyncInlineCancellable(e *finding.Emitter, extDir string, files []string) {
	var missing []string

	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		if strings.Contains(raw, "_destroyed") {
			continue
		}

		lines := strings.Split(raw, "\n")
		hasParam := false
		scopeDepth, scopeStart := 0, -1
		for i, line := range lines {
			trimmed := strings.TrimLeft(line, " \t")
			if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") {
				continue
			}
			if m := cancellableParamRe.FindStringSubmatch(line); m != nil {
				for _, p := range strings.Split(m[1], ",") {
					name := strings.ToLower(strings.TrimSpace(strings.Split(p, "=")[0]))
					if cancellableNames[name] {
						hasParam = true
						scopeStart = scopeDepth
						break
					}
				}
			}
			scopeDepth += strings.Count(line, "{") - strings.Count(line, "}")
			if hasParam && scopeDepth <= scopeStart {
				hasParam = false
			}
			if !strings.Contains(trimmed, "_async(") {
				continue
			}
			if strings.Contains(strings.ToLower(line), "cancellable") || hasParam {
				continue
			}
			missing = append(missing, fmt.Sprintf("%s:%d", rel, i+1))
		}
	}

	if len(missing) > 0 {
		extra := ""
		locs := missing
		if len(locs) > 3 {
			extra = fmt.Sprintf(" (+%d more)", len(locs)-3)
			locs = locs[:3]
		}
		e.Emitf(finding.Warn, "async/missing-cancellable",
			fmt.Sprintf("_async() calls without Gio.Cancellable at %s%s — async operations may run after disable()", strings.Join(locs, ", "), extra))
		return
	}
	e.Emitf(finding.Pass, "async/missing-cancellable", "all _async() calls have a cancellable argument")
}

func checkDisableCancellation(e *finding.Emitter, extDir string) {
	raw, err := scanfs.ReadFile(extDir + "/extension.js")
	if err != nil {
		return
	}
	clean := scanfs.StripComments(raw)

	hasAsync := regexp.MustCompile(`\basync\b`).MatchString(clean) && regexp.MustCompile(`\bawait\b`).MatchString(clean)
	if !hasAsync {
		return
	}

	body, _, _, ok := scanfs.MethodBody(clean, "disable")
	if !ok {
		return
	}

	hasCancel := regexp.MustCompile(`\.(?:cancel|abort)\s*\(`).MatchString(body)
	hasDestroyed := regexp.MustCompile(`_destroyed\s*=\s*true`).MatchString(body)

	if !hasCancel && !hasDestroyed {
		e.Emitf(finding.Warn, "async/disable-no-cancel",
			"extension uses async but disable() has no .cancel(), .abort(), or _destroyed flag — async operations may outlive disable()")
		return
	}
	e.Emitf(finding.Pass, "async/disable-cancellation", "disable() handles async cancellation")
}
