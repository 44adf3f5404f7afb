package heuristics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

var classExtendsInline = regexp.MustCompile(`class\s+\w+\s+extends\s+[\w.]+\s*\{`)
var drawCallbackRe = regexp.MustCompile(`(?:vfunc_repaint|set_draw_func)\s*[\(\{]`)

// GObject runs the registerClass/drawing-callback hygiene checks, grounded
// on check-gobject.py.
func GObject(extDir string) []string {
	e := &finding.Emitter{}
	files, err := scanfs.JSFiles(extDir, false)
	if err != nil || len(files) == 0 {
		e.Emitf(finding.Skip, "gobject/no-js", "no JavaScript files found")
		return e.Lines()
	}

	checkGTypeName(e, extDir, files)
	checkSuperInit(e, extDir, files)
	checkCairoDispose(e, extDir, files)
	return e.Lines()
}

func checkGTypeName(e *finding.Emitter, extDir string, files []string) {
	var missing []string
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		for _, loc := range registerClassRe.FindAllStringIndex(raw, -1) {
			lookahead := sliceSafe(raw, loc[0], loc[0]+300)
			if !strings.Contains(lookahead, "GTypeName") {
				missing = append(missing, fmt.Sprintf("%s:%d", rel, scanfs.LineOf(raw, loc[0])))
			}
		}
	}
	if len(missing) > 0 {
		if len(missing) > 5 {
			missing = missing[:5]
		}
		for _, loc := range missing {
			e.Emitf(finding.Warn, "gobject/missing-gtypename",
				fmt.Sprintf("%s: GObject.registerClass without GTypeName — add GTypeName to avoid conflicts between extensions", loc))
		}
		return
	}
	e.Emitf(finding.Pass, "gobject/missing-gtypename", "all registerClass calls include GTypeName")
}

func checkSuperInit(e *finding.Emitter, extDir string, files []string) {
	var missing []string
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		for _, loc := range classExtendsInline.FindAllStringIndex(raw, -1) {
			preceding := sliceSafe(raw, loc[0]-80, loc[0])
			if !strings.Contains(preceding, "registerClass") {
				continue
			}
			classBody := raw[loc[1]:]
			body, start, _, ok := scanfs.MethodBody(classBody, "_init")
			if !ok {
				continue
			}
			if !strings.Contains(body, "super._init") && !strings.Contains(body, "super(params)") {
				lineno := scanfs.LineOf(raw, loc[0]) + scanfs.LineOf(classBody[:start], start) - 1
				missing = append(missing, fmt.Sprintf("%s:%d", rel, lineno))
			}
		}
	}
	if len(missing) > 0 {
		if len(missing) > 5 {
			missing = missing[:5]
		}
		for _, loc := range missing {
			e.Emitf(finding.Warn, "gobject/missing-super-init",
				fmt.Sprintf("%s: GObject subclass _init() missing super._init() call", loc))
		}
		return
	}
	e.Emitf(finding.Pass, "gobject/missing-super-init", "all GObject subclass _init() methods call super._init()")
}

func checkCairoDispose(e *finding.Emitter, extDir string, files []string) {
	var missing []string
	for _, rel := range files {
		raw, err := scanfs.ReadFile(extDir + "/" + rel)
		if err != nil {
			continue
		}
		for _, loc := range drawCallbackRe.FindAllStringIndex(raw, -1) {
			lookahead := sliceSafe(raw, loc[0], loc[0]+500)
			if strings.Contains(lookahead, "get_context") && !strings.Contains(lookahead, "$dispose") {
				missing = append(missing, fmt.Sprintf("%s:%d", rel, scanfs.LineOf(raw, loc[0])))
			}
		}
	}
	if len(missing) > 0 {
		for _, loc := range missing {
			e.Emitf(finding.Warn, "gobject/cairo-dispose",
				fmt.Sprintf("%s: drawing callback uses get_context() without cr.$dispose() — will leak Cairo context", loc))
		}
		return
	}
	e.Emitf(finding.Pass, "gobject/cairo-dispose", "all drawing callbacks dispose the Cairo context")
}

func sliceSafe(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		return ""
	}
	return s[start:end]
}
