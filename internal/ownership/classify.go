package ownership

import (
	"fmt"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

// typeToCheck maps an orphan's resource kind to its check/rule id, grounded
// on check-resources.py's TYPE_TO_CHECK.
var typeToCheck = map[ResourceKind]string{
	Signal:       "resource-tracking/orphan-signal",
	Timeout:      "resource-tracking/orphan-timeout",
	Widget:       "resource-tracking/orphan-widget",
	FileMonitor:  "resource-tracking/orphan-filemonitor",
	DBus:         "resource-tracking/orphan-dbus",
	GSettingsKnd: "resource-tracking/orphan-gsettings",
}

// ClassifyOrphan determines the check id and detail string for one orphan,
// grounded on check-resources.py's classify_orphan: the no-lifecycle-method
// and parent-does-not-release cases get their own check ids regardless of
// resource kind; everything else is classified by kind.
func ClassifyOrphan(o Orphan) (checkID, detail string) {
	switch {
	case containsAny(o.Reason, "no destroy()/disable() method"):
		return "resource-tracking/no-destroy-method", fmt.Sprintf("%s:%d — %s", o.File, o.Line, o.Reason)
	case containsAny(o.Reason, "parent does not call destroy()"):
		return "resource-tracking/destroy-not-called", fmt.Sprintf("%s:%d — %s", o.File, o.Line, o.Reason)
	default:
		id, ok := typeToCheck[o.Kind]
		if !ok {
			id = "resource-tracking/orphan-" + string(o.Kind)
		}
		return id, fmt.Sprintf("%s:%d — %s", o.File, o.Line, o.Reason)
	}
}

func containsAny(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// Summary is the aggregate line the original emits after all per-orphan
// warnings, grounded on check-resources.py's main().
type Summary struct {
	FilesScanned int
	Depth        int
	OrphanCount  int
}

// Report runs the full resource-tracking check in-process (no subprocess):
// scan every JS file, build the graph, detect orphans, and emit one WARN
// per orphan plus a summary line.
func Report(extDir string) []string {
	e := &finding.Emitter{}

	files, err := scanfs.JSFiles(extDir, true)
	if err != nil {
		e.Emitf(finding.Skip, "resource-tracking/ownership", "failed to enumerate JS files: %v", err)
		return e.Lines()
	}
	if len(files) == 0 {
		e.Emitf(finding.Pass, "resource-tracking/ownership", "0 files scanned, depth 0, 0 orphans")
		return e.Lines()
	}

	var scans []*FileScan
	for _, rel := range files {
		fs, err := ScanFile(extDir, rel)
		if err != nil {
			continue
		}
		scans = append(scans, fs)
	}

	g := Build(scans)
	orphans := DetectOrphans(g)

	for _, o := range orphans {
		id, detail := ClassifyOrphan(o)
		e.Emit(finding.New(finding.Warn, id, detail))
	}

	summary := Summary{FilesScanned: len(scans), Depth: g.Depth, OrphanCount: len(orphans)}
	if summary.OrphanCount == 0 {
		e.Emitf(finding.Pass, "resource-tracking/ownership",
			"%d files scanned, depth %d, 0 orphans", summary.FilesScanned, summary.Depth)
	} else {
		plural := "s"
		if summary.OrphanCount == 1 {
			plural = ""
		}
		e.Emitf(finding.Warn, "resource-tracking/ownership",
			"%d files scanned, depth %d, %d orphan%s detected", summary.FilesScanned, summary.Depth, summary.OrphanCount, plural)
	}

	return e.Lines()
}
