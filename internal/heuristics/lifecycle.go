// Package heuristics implements the single-file heuristic checks named in
// spec §4.9 — regex and brace-depth based signals about lifecycle hygiene,
// code quality, and store-trust concerns that fall short of full parsing.
// Every check here is advisory: it predicts what a store reviewer would
// flag, not a certainty.
package heuristics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

// Lifecycle runs the extension.js lifecycle checks (R-LIFE-01..14 in the
// original catalog) against extDir, grounded on check-lifecycle.py.
// sessionModes comes from the extension's metadata.json (component E) and
// gates the lock-screen-sensitive checks.
func Lifecycle(extDir string, sessionModes []string) []string {
	e := &finding.Emitter{}
	path := extDir + "/extension.js"
	raw, err := scanfs.ReadFile(path)
	if err != nil {
		e.Emitf(finding.Skip, "lifecycle/extension-js", "no extension.js found")
		return e.Lines()
	}
	clean := scanfs.StripComments(raw)
	lines := strings.Split(clean, "\n")

	checkEnableDisable(e, clean)
	checkDefaultExport(e, clean)
	checkSignalBalance(e, clean)
	checkUntrackedTimeouts(e, lines)
	checkConnectObjectMigration(e, clean)
	checkAsyncDestroyedGuard(e, clean)
	checkKeybindingCleanup(e, clean)
	checkDBusProxyLifecycle(e, clean)
	checkFileMonitorLifecycle(e, clean)
	checkInjectionManager(e, clean)
	checkSelectiveDisable(e, clean)
	checkClipboardKeybinding(e, clean)
	checkTimeoutRemovalInDisable(e, clean)
	checkUnlockDialogComment(e, raw, sessionModes)
	checkLockscreenSignals(e, clean, sessionModes)

	return e.Lines()
}

func hasSessionMode(modes []string, want string) bool {
	for _, m := range modes {
		if m == want {
			return true
		}
	}
	return false
}

var unlockCommentRe = regexp.MustCompile(`//.*\b(?:unlock|lock|session|mode)\b`)

func checkUnlockDialogComment(e *finding.Emitter, raw string, sessionModes []string) {
	if !hasSessionMode(sessionModes, "unlock-dialog") {
		return
	}
	body, _, _, ok := scanfs.MethodBody(raw, "disable")
	if !ok {
		return
	}
	if unlockCommentRe.MatchString(body) {
		e.Emitf(finding.Pass, "lifecycle/unlock-dialog-comment", "disable() documents unlock-dialog handling")
		return
	}
	e.Emitf(finding.Warn, "lifecycle/unlock-dialog-comment",
		"extension declares unlock-dialog session mode but disable() has no comment explaining lock-screen behavior")
}

var lockModeGuardRe = regexp.MustCompile(`currentMode|sessionMode|unlock-dialog|session-modes`)
var keyboardSignalRe = regexp.MustCompile(`key-press-event|key-release-event|captured-event`)

func checkLockscreenSignals(e *finding.Emitter, clean string, sessionModes []string) {
	if !hasSessionMode(sessionModes, "unlock-dialog") {
		return
	}
	if !keyboardSignalRe.MatchString(clean) {
		return
	}
	if lockModeGuardRe.MatchString(clean) {
		e.Emitf(finding.Pass, "lifecycle/lockscreen-signals", "keyboard signal handling guarded by a session-mode check")
		return
	}
	e.Emitf(finding.Fail, "lifecycle/lockscreen-signals",
		"keyboard signal connected with unlock-dialog session mode declared, and no session-mode guard found").
		WithFix("guard keyboard event handling with a Main.sessionMode.currentMode check")
}

func checkEnableDisable(e *finding.Emitter, clean string) {
	hasEnable := regexp.MustCompile(`\benable\s*\(\s*\)\s*\{`).MatchString(clean)
	hasDisable := regexp.MustCompile(`\bdisable\s*\(\s*\)\s*\{`).MatchString(clean)
	switch {
	case hasEnable && hasDisable:
		e.Emitf(finding.Pass, "lifecycle/enable-disable", "extension.js defines enable() and disable()")
	case !hasEnable && !hasDisable:
		e.Emitf(finding.Fail, "lifecycle/enable-disable", "extension.js defines neither enable() nor disable()")
	default:
		e.Emitf(finding.Fail, "lifecycle/enable-disable", "extension.js defines only one of enable()/disable()")
	}
}

func checkDefaultExport(e *finding.Emitter, clean string) {
	if regexp.MustCompile(`\bexport\s+default\s+class\b`).MatchString(clean) {
		e.Emitf(finding.Pass, "lifecycle/default-export", "extension.js has a default export class")
		return
	}
	e.Emitf(finding.Warn, "lifecycle/default-export", "extension.js missing 'export default class'")
}

var connectRe = regexp.MustCompile(`\.connect\s*\(`)
var connectObjectRe = regexp.MustCompile(`\.connectObject\s*\(`)
var disconnectRe = regexp.MustCompile(`\.disconnect\s*\(`)
var disconnectObjectRe = regexp.MustCompile(`\.disconnectObject\s*\(`)

func checkSignalBalance(e *finding.Emitter, clean string) {
	connects := len(connectRe.FindAllString(clean, -1))
	disconnects := len(disconnectRe.FindAllString(clean, -1))
	imbalance := connects - disconnects
	if imbalance < 0 {
		imbalance = -imbalance
	}
	if imbalance > 2 {
		e.Emitf(finding.Warn, "lifecycle/signal-balance",
			"%d .connect() vs %d .disconnect() (excluding connectObject) — possible signal leak", connects, disconnects).
			WithFix("call .disconnect() in disable() for every .connect(), or switch to connectObject()/disconnectObject()")
		return
	}
	e.Emitf(finding.Pass, "lifecycle/signal-balance", "signal connect/disconnect counts balanced")
}

var timeoutCallRe = regexp.MustCompile(`(?:GLib\.)?(?:timeout_add|idle_add)(?:_seconds)?\s*\(`)

func checkUntrackedTimeouts(e *finding.Emitter, lines []string) {
	var untracked []string
	for i, line := range lines {
		if !timeoutCallRe.MatchString(line) {
			continue
		}
		if strings.Contains(line, "=") || strings.Contains(line, "return") {
			continue
		}
		untracked = append(untracked, fmt.Sprintf("%d", i+1))
		if len(untracked) >= 3 {
			break
		}
	}
	if len(untracked) == 0 {
		e.Emitf(finding.Pass, "lifecycle/untracked-timeouts", "all timeout_add()/idle_add() calls are captured")
		return
	}
	e.Emitf(finding.Warn, "lifecycle/untracked-timeouts",
		fmt.Sprintf("extension.js:%s: timeout_add()/idle_add() result not stored — cannot be removed in disable()", strings.Join(untracked, ","))).
		WithFix("store the source id returned by timeout_add()/idle_add() and call GLib.Source.remove() in disable()")
}

func checkConnectObjectMigration(e *finding.Emitter, clean string) {
	connects := len(connectRe.FindAllString(clean, -1)) - len(connectObjectRe.FindAllString(clean, -1))
	usesConnectObject := connectObjectRe.MatchString(clean)
	if connects >= 3 && !usesConnectObject {
		e.Emitf(finding.Warn, "lifecycle/connect-object-migration",
			fmt.Sprintf("%d manual .connect() calls, none migrated to connectObject()", connects)).
			WithFix("use connectObject()/disconnectObject() for automatic signal cleanup")
		return
	}
	e.Emitf(finding.Pass, "lifecycle/connect-object-migration", "no connectObject migration suggested")
}

func checkAsyncDestroyedGuard(e *finding.Emitter, clean string) {
	hasAsync := regexp.MustCompile(`\basync\b`).MatchString(clean) && regexp.MustCompile(`\bawait\b`).MatchString(clean)
	if !hasAsync {
		return
	}
	if strings.Contains(clean, "_destroyed") || strings.Contains(clean, "_isDestroyed") {
		e.Emitf(finding.Pass, "lifecycle/async-destroyed-guard", "async code guarded by a destroyed sentinel")
		return
	}
	e.Emitf(finding.Warn, "lifecycle/async-destroyed-guard",
		"async/await used without a _destroyed/_isDestroyed guard — callback may run after disable()")
}

func checkKeybindingCleanup(e *finding.Emitter, clean string) {
	adds := len(regexp.MustCompile(`\.addKeybinding\s*\(`).FindAllString(clean, -1))
	if adds == 0 {
		return
	}
	removes := len(regexp.MustCompile(`\.removeKeybinding\s*\(`).FindAllString(clean, -1))
	if removes == 0 {
		e.Emitf(finding.Fail, "lifecycle/keybinding-cleanup",
			fmt.Sprintf("%d addKeybinding() call(s), 0 removeKeybinding()", adds)).
			WithFix("call removeKeybinding() in disable() for every addKeybinding()")
		return
	}
	e.Emitf(finding.Pass, "lifecycle/keybinding-cleanup", "keybindings are removed")
}

func checkDBusProxyLifecycle(e *finding.Emitter, clean string) {
	if !strings.Contains(clean, "DBusProxy") && !strings.Contains(clean, "makeProxyWrapper") {
		return
	}
	if strings.Contains(clean, "makeProxyWrapper") {
		// proxy wrapper factories manage their own connection lifetime.
		e.Emitf(finding.Pass, "lifecycle/dbus-proxy", "D-Bus proxy created via makeProxyWrapper")
		return
	}
	if regexp.MustCompile(`\.(disconnect|close)\s*\(`).MatchString(clean) {
		e.Emitf(finding.Pass, "lifecycle/dbus-proxy", "D-Bus proxy signal handlers appear disconnected")
		return
	}
	e.Emitf(finding.Warn, "lifecycle/dbus-proxy", "Gio.DBusProxy used without a visible disconnect/close in this file")
}

func checkFileMonitorLifecycle(e *finding.Emitter, clean string) {
	if !strings.Contains(clean, "monitor_file") && !strings.Contains(clean, "monitor_directory") && !strings.Contains(clean, "Gio.FileMonitor") {
		return
	}
	if regexp.MustCompile(`\.cancel\s*\(`).MatchString(clean) {
		e.Emitf(finding.Pass, "lifecycle/file-monitor", "file monitor appears to be cancelled")
		return
	}
	e.Emitf(finding.Warn, "lifecycle/file-monitor", "Gio file monitor created without a visible .cancel()")
}

func checkInjectionManager(e *finding.Emitter, clean string) {
	if !strings.Contains(clean, "InjectionManager") {
		return
	}
	if !strings.Contains(clean, ".clear()") {
		e.Emitf(finding.Fail, "lifecycle/injection-manager", "InjectionManager used without .clear() to restore originals").
			WithFix("call injectionManager.clear() in disable()")
	} else {
		e.Emitf(finding.Pass, "lifecycle/injection-manager", "InjectionManager is cleared in disable()")
	}

	protoOverride := regexp.MustCompile(`\w+\.prototype\.\w+\s*=|Object\.assign\(\s*\w+\.prototype`)
	if protoOverride.MatchString(clean) {
		if body, _, _, ok := scanfs.MethodBody(clean, "disable"); ok && protoOverride.MatchString(body) {
			e.Emitf(finding.Pass, "lifecycle/prototype-restore", "prototype override restored in disable()")
		} else {
			e.Emitf(finding.Warn, "lifecycle/prototype-restore", "prototype override with no visible restoration in disable()")
		}
	}
}

var nullGuardRe = regexp.MustCompile(`^!\s*this\._\w+\s*$`)

func checkSelectiveDisable(e *finding.Emitter, clean string) {
	body, _, _, ok := scanfs.MethodBody(clean, "disable")
	if !ok {
		return
	}
	for _, m := range regexp.MustCompile(`if\s*\(([^)]+)\)\s*return\s*;`).FindAllStringSubmatch(body, -1) {
		cond := strings.TrimSpace(m[1])
		if nullGuardRe.MatchString(cond) {
			continue
		}
		e.Emitf(finding.Fail, "lifecycle/selective-disable",
			fmt.Sprintf("disable() returns early on condition %q — cleanup may be skipped", cond))
		return
	}
	e.Emitf(finding.Pass, "lifecycle/selective-disable", "disable() has no early-return guard beyond simple null checks")
}

func checkClipboardKeybinding(e *finding.Emitter, clean string) {
	if strings.Contains(clean, "St.Clipboard") && strings.Contains(clean, "addKeybinding") {
		e.Emitf(finding.Warn, "lifecycle/clipboard-keybinding",
			"St.Clipboard access combined with a keybinding in the same file — verify clipboard access is not triggered in the lock screen")
	}
}

func checkTimeoutRemovalInDisable(e *finding.Emitter, clean string) {
	bindings := regexp.MustCompile(`this\.(_\w+)\s*=\s*(?:GLib\.)?(?:timeout_add|idle_add)(?:_seconds)?\s*\(`).FindAllStringSubmatch(clean, -1)
	if len(bindings) == 0 {
		return
	}
	body, _, _, ok := scanfs.MethodBody(clean, "disable")
	if !ok {
		e.Emitf(finding.Warn, "lifecycle/timeout-removal", "timeout_add()/idle_add() result stored but no disable() found")
		return
	}
	removeAny := regexp.MustCompile(`(?:GLib\.)?Source\.remove\s*\(|source_remove\s*\(`).MatchString(body)
	var missing []string
	for _, b := range bindings {
		ref := b[1]
		if strings.Contains(body, ref) {
			continue
		}
		missing = append(missing, ref)
	}
	if len(missing) > 0 && !removeAny {
		e.Emitf(finding.Warn, "lifecycle/timeout-removal",
			fmt.Sprintf("this.%s not removed via Source.remove()/source_remove() in disable()", strings.Join(missing, ", this.")))
		return
	}
	e.Emitf(finding.Pass, "lifecycle/timeout-removal", "tracked timeouts are removed in disable()")
}
