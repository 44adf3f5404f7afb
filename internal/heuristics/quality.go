package heuristics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/obfuscation"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

// Quality runs the code-quality and store-trust heuristics (R-QUAL-01..08
// plus the obfuscation check) across every JS file in extDir, grounded on
// check-quality.py.
func Quality(extDir string, sessionModes []string) []string {
	e := &finding.Emitter{}

	files, err := scanfs.JSFiles(extDir, true)
	if err != nil || len(files) == 0 {
		e.Emitf(finding.Skip, "quality/no-js", "no JavaScript files found")
		return e.Lines()
	}

	checkTryCatchDensity(e, extDir, files)
	checkImpossibleState(e, extDir, files, sessionModes)
	checkPendulumPattern(e, extDir, files)
	checkEmptyCatch(e, extDir, files)
	checkDestroyedDensity(e, extDir, files)
	checkMockInProduction(e, extDir, files)
	checkConstructorResources(e, extDir, files)
	checkObfuscatedIdentifiers(e, extDir, files)

	return e.Lines()
}

var funcDefRe = regexp.MustCompile(`(?:function\s+\w+|^\s*\w+\s*\([^)]*\)\s*\{|=>\s*\{)`)
var tryRe = regexp.MustCompile(`\btry\s*\{`)

func checkTryCatchDensity(e *finding.Emitter, extDir string, files []string) {
	var totalFuncs, totalTry int
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		clean := scanfs.StripComments(raw)
		totalFuncs += len(funcDefRe.FindAllString(clean, -1))
		totalTry += len(tryRe.FindAllString(clean, -1))
	}
	if totalFuncs == 0 {
		return
	}
	ratio := float64(totalTry) / float64(totalFuncs)
	if totalTry >= 3 && ratio > 0.5 {
		e.Emitf(finding.Warn, "quality/try-catch-density",
			fmt.Sprintf("%d try blocks across %d function-like definitions (ratio %.2f) — exceptions may be used to silence real errors", totalTry, totalFuncs, ratio))
		return
	}
	e.Emitf(finding.Pass, "quality/try-catch-density", "try/catch density within expected range")
}

func checkImpossibleState(e *finding.Emitter, extDir string, files []string, sessionModes []string) {
	if hasSessionMode(sessionModes, "unlock-dialog") || hasSessionMode(sessionModes, "gdm") {
		return
	}
	pattern := regexp.MustCompile(`sessionMode\.isLocked|currentMode\s*===\s*['"]unlock-dialog['"]`)
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		if pattern.MatchString(scanfs.StripComments(raw)) {
			e.Emitf(finding.Warn, "quality/impossible-state",
				fmt.Sprintf("%s checks a lock-screen session mode that metadata.json never declares — this branch can never run", rel))
			return
		}
	}
	e.Emitf(finding.Pass, "quality/impossible-state", "no unreachable session-mode checks found")
}

func checkPendulumPattern(e *finding.Emitter, extDir string, files []string) {
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		if strings.Contains(raw, "_pendingDestroy") && strings.Contains(raw, "_initializing") {
			e.Emitf(finding.Warn, "quality/pendulum-pattern",
				fmt.Sprintf("%s combines _pendingDestroy and _initializing flags — often indicates a race between init and teardown rather than a fix for one", rel))
			return
		}
	}
	e.Emitf(finding.Pass, "quality/pendulum-pattern", "no pendulum init/destroy flag pattern found")
}

var emptyCatchRe = regexp.MustCompile(`(?s)\bcatch\s*(?:\([^)]*\))?\s*\{([^{}]*)\}`)
var cleanupCallRe = regexp.MustCompile(`\.(disconnect|cancel|destroy|close)\s*\(|import\s*\(`)

func checkEmptyCatch(e *finding.Emitter, extDir string, files []string) {
	var found []string
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		clean := scanfs.StripComments(raw)
		for _, m := range emptyCatchRe.FindAllStringSubmatchIndex(clean, -1) {
			body := clean[m[2]:m[3]]
			if strings.TrimSpace(body) != "" {
				continue
			}
			// suppressed when the preceding try body performs real cleanup.
			preceding := clean[:m[0]]
			tryStart := strings.LastIndex(preceding, "try")
			if tryStart >= 0 && cleanupCallRe.MatchString(preceding[tryStart:]) {
				continue
			}
			line := scanfs.LineOf(clean, m[0])
			found = append(found, fmt.Sprintf("%s:%d", rel, line))
		}
	}
	if len(found) > 0 {
		e.Emitf(finding.Warn, "quality/empty-catch",
			fmt.Sprintf("empty catch block(s) swallowing exceptions at %s", strings.Join(found, ", ")))
		return
	}
	e.Emitf(finding.Pass, "quality/empty-catch", "no empty catch blocks swallow exceptions")
}

var destroyedTokenRe = regexp.MustCompile(`_destroyed|_pendingDestroy|_initializing`)

func checkDestroyedDensity(e *finding.Emitter, extDir string, files []string) {
	type count struct {
		rel string
		n   int
	}
	var totals int
	var nonBlank int
	var perFile []count
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		n := len(destroyedTokenRe.FindAllString(raw, -1))
		totals += n
		if n > 0 {
			perFile = append(perFile, count{rel, n})
		}
		for _, l := range strings.Split(raw, "\n") {
			if strings.TrimSpace(l) != "" {
				nonBlank++
			}
		}
	}
	if nonBlank == 0 {
		return
	}
	ratio := float64(totals) / float64(nonBlank)
	if totals >= 10 && ratio > 0.02 {
		for i := 0; i < len(perFile) && i < 3; i++ {
			for j := i + 1; j < len(perFile); j++ {
				if perFile[j].n > perFile[i].n {
					perFile[i], perFile[j] = perFile[j], perFile[i]
				}
			}
		}
		top := perFile
		if len(top) > 3 {
			top = top[:3]
		}
		var names []string
		for _, c := range top {
			names = append(names, fmt.Sprintf("%s (%d)", c.rel, c.n))
		}
		e.Emitf(finding.Warn, "quality/destroyed-density",
			fmt.Sprintf("%d destroyed/pending/initializing sentinel references (ratio %.3f) concentrated in %s — may indicate defensive guard sprawl", totals, ratio, strings.Join(names, ", ")))
		return
	}
	e.Emitf(finding.Pass, "quality/destroyed-density", "destroyed-sentinel usage within expected range")
}

var mockFileRe = regexp.MustCompile(`(?i)^(mock|test|spec)[-_.]|\.(test|spec)\.js$`)
var mockTriggerRe = regexp.MustCompile(`use_mock|mock_trigger|MOCK_MODE|\.mock\b`)

func checkMockInProduction(e *finding.Emitter, extDir string, files []string) {
	var flagged []string
	for _, rel := range files {
		base := rel
		if idx := strings.LastIndex(rel, "/"); idx >= 0 {
			base = rel[idx+1:]
		}
		if mockFileRe.MatchString(base) {
			flagged = append(flagged, rel+" (filename)")
			continue
		}
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		clean := scanfs.StripComments(raw)
		if mockTriggerRe.MatchString(clean) {
			flagged = append(flagged, rel+" (runtime trigger)")
		}
	}
	if len(flagged) > 0 {
		e.Emitf(finding.Warn, "quality/mock-in-production",
			fmt.Sprintf("mock/test scaffolding shipped in production source: %s", strings.Join(flagged, ", ")))
		return
	}
	e.Emitf(finding.Pass, "quality/mock-in-production", "no mock/test scaffolding found in shipped source")
}

var widgetBases = map[string]bool{
	"St": true, "Clutter": true, "PanelMenu": true, "PopupMenu": true, "Adw": true, "Gtk": true,
}
var classExtendsRe = regexp.MustCompile(`class\s+(\w+)\s+extends\s+(\w+)`)
var resourceAllocRe = regexp.MustCompile(`this\.getSettings\(|\.connect\(|\.connectObject\(|timeout_add|new\s+Gio\.DBusProxy`)

func checkConstructorResources(e *finding.Emitter, extDir string, files []string) {
	var flagged []string
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		clean := scanfs.StripComments(raw)
		for _, ctorName := range []string{"constructor", "_init"} {
			body, start, _, ok := scanfs.MethodBody(clean, ctorName)
			if !ok {
				continue
			}
			preceding := clean[:start]
			m := lastMatch(classExtendsRe, preceding)
			if m != nil && widgetBases[m[2]] {
				continue
			}
			if hasMethod(clean, "destroy") {
				continue
			}
			if resourceAllocRe.MatchString(body) {
				flagged = append(flagged, fmt.Sprintf("%s:%s()", rel, ctorName))
			}
		}
	}
	if len(flagged) > 0 {
		e.Emitf(finding.Warn, "quality/constructor-resources",
			fmt.Sprintf("resources allocated in constructor without a destroy() method: %s", strings.Join(flagged, ", ")))
		return
	}
	e.Emitf(finding.Pass, "quality/constructor-resources", "no constructor-allocated resources without a destroy() method")
}

func checkObfuscatedIdentifiers(e *finding.Emitter, extDir string, files []string) {
	var flagged []string
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		if obfuscation.Scan(raw).Suspicious {
			flagged = append(flagged, rel)
		}
	}
	if len(flagged) > 0 {
		e.Emitf(finding.Warn, "quality/obfuscated-identifiers",
			fmt.Sprintf("source shows obfuscator-style identifiers in: %s", strings.Join(flagged, ", ")))
		return
	}
	e.Emitf(finding.Pass, "quality/obfuscated-identifiers", "no obfuscator-style identifiers detected")
}

func lastMatch(re *regexp.Regexp, s string) []string {
	all := re.FindAllStringSubmatch(s, -1)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

func hasMethod(content, name string) bool {
	_, _, _, ok := scanfs.MethodBody(content, name)
	return ok
}
