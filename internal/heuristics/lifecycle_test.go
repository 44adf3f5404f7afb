package heuristics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeExtension(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "extension.js"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func linesContaining(lines []string, substr string) []string {
	var out []string
	for _, l := range lines {
		if strings.Contains(l, substr) {
			out = append(out, l)
		}
	}
	return out
}

func TestLifecycleMissingExtensionJS(t *testing.T) {
	dir := t.TempDir()
	lines := Lifecycle(dir, nil)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "SKIP|lifecycle/extension-js|") {
		t.Errorf("Lifecycle() = %v", lines)
	}
}

func TestLifecycleEnableDisablePresent(t *testing.T) {
	dir := t.TempDir()
	writeExtension(t, dir, `
export default class Extension {
    enable() {
        this._id = global.display.connect('notify::focus-window', () => {});
    }
    disable() {
        global.display.disconnect(this._id);
    }
}
`)
	lines := Lifecycle(dir, nil)
	matches := linesContaining(lines, "lifecycle/enable-disable")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "PASS|") {
		t.Errorf("enable-disable finding = %v, want a single PASS", matches)
	}
}

func TestLifecycleMissingDisable(t *testing.T) {
	dir := t.TempDir()
	writeExtension(t, dir, `
export default class Extension {
    enable() {}
}
`)
	lines := Lifecycle(dir, nil)
	matches := linesContaining(lines, "lifecycle/enable-disable")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "FAIL|") {
		t.Errorf("enable-disable finding = %v, want a single FAIL", matches)
	}
}

func TestLifecycleSignalImbalanceWarns(t *testing.T) {
	dir := t.TempDir()
	writeExtension(t, dir, `
export default class Extension {
    enable() {
        this._a = x.connect('a', () => {});
        this._b = x.connect('b', () => {});
        this._c = x.connect('c', () => {});
        this._d = x.connect('d', () => {});
    }
    disable() {}
}
`)
	lines := Lifecycle(dir, nil)
	matches := linesContaining(lines, "lifecycle/signal-balance")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "WARN|") {
		t.Errorf("signal-balance finding = %v, want a single WARN", matches)
	}
}

func TestLifecycleUnlockDialogCommentGatedOnSessionMode(t *testing.T) {
	dir := t.TempDir()
	writeExtension(t, dir, `
export default class Extension {
    enable() {}
    disable() {}
}
`)
	withoutMode := Lifecycle(dir, []string{"user"})
	if len(linesContaining(withoutMode, "lifecycle/unlock-dialog-comment")) != 0 {
		t.Error("unlock-dialog-comment check fired without unlock-dialog session mode declared")
	}

	withMode := Lifecycle(dir, []string{"user", "unlock-dialog"})
	matches := linesContaining(withMode, "lifecycle/unlock-dialog-comment")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "WARN|") {
		t.Errorf("unlock-dialog-comment finding = %v, want a single WARN with no comment present", matches)
	}
}

func TestLifecycleKeybindingCleanupMissing(t *testing.T) {
	dir := t.TempDir()
	writeExtension(t, dir, `
export default class Extension {
    enable() {
        Main.wm.addKeybinding('my-shortcut', this._settings, Meta.KeyBindingFlags.NONE, Shell.ActionMode.NORMAL, () => {});
    }
    disable() {}
}
`)
	lines := Lifecycle(dir, nil)
	matches := linesContaining(lines, "lifecycle/keybinding-cleanup")
	if len(matches) != 1 || !strings.HasPrefix(matches[0], "FAIL|") {
		t.Errorf("keybinding-cleanup finding = %v, want a single FAIL", matches)
	}
}
