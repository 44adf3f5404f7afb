package ownership

import "testing"

func TestClassifyOrphanNoLifecycleMethod(t *testing.T) {
	o := Orphan{File: "indicator.js", Line: 5, Kind: Signal, Reason: "no destroy()/disable() method in indicator.js"}
	id, detail := ClassifyOrphan(o)
	if id != "resource-tracking/no-destroy-method" {
		t.Errorf("id = %q", id)
	}
	if detail == "" {
		t.Error("detail is empty")
	}
}

func TestClassifyOrphanParentDoesNotRelease(t *testing.T) {
	o := Orphan{File: "indicator.js", Line: 5, Kind: Signal, Reason: "parent does not call destroy() on indicator.js"}
	id, _ := ClassifyOrphan(o)
	if id != "resource-tracking/destroy-not-called" {
		t.Errorf("id = %q", id)
	}
}

func TestClassifyOrphanByKind(t *testing.T) {
	cases := map[ResourceKind]string{
		Signal:       "resource-tracking/orphan-signal",
		Timeout:      "resource-tracking/orphan-timeout",
		Widget:       "resource-tracking/orphan-widget",
		DBus:         "resource-tracking/orphan-dbus",
		FileMonitor:  "resource-tracking/orphan-filemonitor",
		GSettingsKnd: "resource-tracking/orphan-gsettings",
	}
	for kind, want := range cases {
		o := Orphan{File: "x.js", Line: 1, Kind: kind, Reason: "created but not cleaned up in destroy()"}
		id, _ := ClassifyOrphan(o)
		if id != want {
			t.Errorf("ClassifyOrphan(kind=%s) id = %q, want %q", kind, id, want)
		}
	}
}

func TestReportNoFiles(t *testing.T) {
	dir := t.TempDir()
	lines := Report(dir)
	if len(lines) != 1 || lines[0] != "PASS|resource-tracking/ownership|0 files scanned, depth 0, 0 orphans" {
		t.Errorf("Report() = %v", lines)
	}
}
