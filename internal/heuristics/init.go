package heuristics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

var shellGlobalsRe = regexp.MustCompile(
	`\bMain\.(?:panel|overview|layoutManager|sessionMode|messageTray|wm|extensionManager|notify)\b`)
var gobjectCtorRe = regexp.MustCompile(
	`\bnew\s+(?:St|Clutter|Gio|GLib|GObject|Meta|Shell|Pango|Soup|Cogl|Atk|GdkPixbuf)\.\w+\b`)
var registerClassRe = regexp.MustCompile(`GObject\.registerClass\s*\(`)
var ctorStartRe = regexp.MustCompile(`\bconstructor\s*\(`)

func isInitSkipLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "import ") || strings.HasPrefix(s, "import{") {
		return true
	}
	if strings.Contains(s, "Gio._promisify") {
		return true
	}
	if regexp.MustCompile(`^export\s*\{`).MatchString(s) {
		return true
	}
	return false
}

// Init runs the init-scope Shell-mutation checks (R-INIT-01/02) across every
// JS file in extDir, grounded on check-init.py.
func Init(extDir string) []string {
	e := &finding.Emitter{}
	files, err := scanfs.JSFiles(extDir, true)
	if err != nil || len(files) == 0 {
		e.Emitf(finding.Pass, "init/shell-modification", "no init-time Shell modifications detected")
		return e.Lines()
	}

	var violations []string
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		clean := scanfs.StripComments(raw)
		lines := strings.Split(clean, "\n")

		for _, lineno := range moduleScopeLines(lines) {
			line := lines[lineno-1]
			if isInitSkipLine(line) {
				continue
			}
			if shellGlobalsRe.MatchString(line) || gobjectCtorRe.MatchString(line) {
				violations = append(violations, fmt.Sprintf("%s:%d", rel, lineno))
			}
		}
		for _, lineno := range constructorLines(lines) {
			line := lines[lineno-1]
			if isInitSkipLine(line) {
				continue
			}
			if shellGlobalsRe.MatchString(line) || gobjectCtorRe.MatchString(line) {
				violations = append(violations, fmt.Sprintf("%s:%d", rel, lineno))
			}
		}
	}

	if len(violations) > 0 {
		for _, loc := range violations {
			e.Emitf(finding.Fail, "init/shell-modification", fmt.Sprintf("%s: Shell modification outside enable()", loc))
		}
	} else {
		e.Emitf(finding.Pass, "init/shell-modification", "no init-time Shell modifications detected")
	}

	checkPromisifyPlacement(e, extDir, files)
	return e.Lines()
}

// moduleScopeLines returns the 1-based line numbers at brace depth 0.
func moduleScopeLines(lines []string) []int {
	var out []int
	scanner := scanfs.BraceScanner{}
	for i, line := range lines {
		before := scanner.Step(line)
		if before == 0 {
			out = append(out, i+1)
		}
	}
	return out
}

// constructorLines returns the 1-based line numbers inside any constructor()
// body that is not declared within a GObject.registerClass(...) block, since
// those only run on explicit instantiation rather than at module load.
func constructorLines(lines []string) []int {
	var out []int
	depth := 0
	inRegisterClass := false
	inCtor := false
	ctorDepth := 0

	for i, line := range lines {
		if !inRegisterClass && registerClassRe.MatchString(line) {
			inRegisterClass = true
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			depth = 0
		}
		if inRegisterClass && strings.Contains(line, ")") && depth == 0 {
			inRegisterClass = false
			continue
		}

		if !inCtor && ctorStartRe.MatchString(line) {
			if inRegisterClass {
				continue
			}
			inCtor = true
			ctorDepth = strings.Count(line, "{") - strings.Count(line, "}")
			out = append(out, i+1)
			if ctorDepth <= 0 {
				inCtor = false
			}
			continue
		}
		if inCtor {
			out = append(out, i+1)
			ctorDepth += strings.Count(line, "{") - strings.Count(line, "}")
			if ctorDepth <= 0 {
				inCtor = false
			}
		}
	}
	return out
}

func checkPromisifyPlacement(e *finding.Emitter, extDir string, files []string) {
	var violations []string
	enableStartRe := regexp.MustCompile(`\benable\s*\(`)

	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		clean := scanfs.StripComments(raw)
		lines := strings.Split(clean, "\n")

		inEnable := false
		depth := 0
		for i, line := range lines {
			if !inEnable && enableStartRe.MatchString(line) {
				inEnable = true
				depth = strings.Count(line, "{") - strings.Count(line, "}")
				if depth <= 0 && strings.Contains(line, "{") {
					if strings.Contains(line, "Gio._promisify") {
						violations = append(violations, fmt.Sprintf("%s:%d", rel, i+1))
					}
					inEnable = false
				}
				continue
			}
			if inEnable {
				depth += strings.Count(line, "{") - strings.Count(line, "}")
				if strings.Contains(line, "Gio._promisify") {
					violations = append(violations, fmt.Sprintf("%s:%d", rel, i+1))
				}
				if depth <= 0 {
					inEnable = false
				}
			}
		}
	}

	if len(violations) > 0 {
		for _, loc := range violations {
			e.Emitf(finding.Warn, "init/promisify-in-enable",
				fmt.Sprintf("%s: Gio._promisify() inside enable() — should be at module scope", loc))
		}
		return
	}
	e.Emitf(finding.Pass, "init/promisify-in-enable", "no Gio._promisify() placement issues")
}
