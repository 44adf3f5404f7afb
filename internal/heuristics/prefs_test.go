package heuristics

import (
	"strings"
	"testing"
)

func TestPrefsMissingFile(t *testing.T) {
	dir := t.TempDir()
	lines := Prefs(dir)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "SKIP|prefs/exists|") {
		t.Errorf("Prefs() = %v", lines)
	}
}

func TestPrefsDualPatternFails(t *testing.T) {
	dir := t.TempDir()
	writeJSFile(t, dir, "prefs.js", `
export default class MyPrefs extends ExtensionPreferences {
    getPreferencesWidget() {}
    fillPreferencesWindow(window) {}
}
`)
	lines := Prefs(dir)
	matches := linesContaining(lines, "prefs/dual-prefs-pattern")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "FAIL|") {
		t.Errorf("dual-prefs-pattern finding = %v, want a single FAIL", matches)
	}
}

func TestPrefsModernPatternPasses(t *testing.T) {
	dir := t.TempDir()
	writeJSFile(t, dir, "prefs.js", `
export default class MyPrefs extends ExtensionPreferences {
    fillPreferencesWindow(window) {}
}
`)
	lines := Prefs(dir)
	if len(linesContaining(lines, "prefs/dual-prefs-pattern")) != 0 {
		t.Error("dual-prefs-pattern fired when only fillPreferencesWindow is defined")
	}
	matches := linesContaining(lines, "prefs/prefs-method")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "PASS|") {
		t.Errorf("prefs-method finding = %v, want a single PASS", matches)
	}
	matches = linesContaining(lines, "prefs/extends-base")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "PASS|") {
		t.Errorf("extends-base finding = %v, want a single PASS", matches)
	}
}

func TestPrefsMissingMethodWarns(t *testing.T) {
	dir := t.TempDir()
	writeJSFile(t, dir, "prefs.js", `
export default class MyPrefs extends ExtensionPreferences {
}
`)
	lines := Prefs(dir)
	matches := linesContaining(lines, "prefs/missing-prefs-method")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "WARN|") {
		t.Errorf("missing-prefs-method finding = %v, want a single WARN", matches)
	}
}

func TestPrefsMissingDefaultExportWarns(t *testing.T) {
	dir := t.TempDir()
	writeJSFile(t, dir, "prefs.js", `
class MyPrefs extends ExtensionPreferences {
    fillPreferencesWindow(window) {}
}
`)
	lines := Prefs(dir)
	matches := linesContaining(lines, "prefs/default-export")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "WARN|") {
		t.Errorf("default-export finding = %v, want a single WARN", matches)
	}
}

func TestPrefsShellResourcePathFails(t *testing.T) {
	dir := t.TempDir()
	writeJSFile(t, dir, "prefs.js", `
export default class MyPrefs extends ExtensionPreferences {
    fillPreferencesWindow(window) {
        let path = 'resource:///org/gnome/shell/ui/foo.js';
    }
}
`)
	lines := Prefs(dir)
	matches := linesContaining(lines, "prefs/resource-path")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "FAIL|") {
		t.Errorf("resource-path finding = %v, want a single FAIL", matches)
	}
}
