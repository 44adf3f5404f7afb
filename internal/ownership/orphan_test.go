package ownership

import (
	"os"
	"path/filepath"
	"testing"
)

func writeOrphanExtFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func scanAll(t *testing.T, dir string, rels ...string) []*FileScan {
	t.Helper()
	var scans []*FileScan
	for _, rel := range rels {
		fs, err := ScanFile(dir, rel)
		if err != nil {
			t.Fatalf("ScanFile(%s) error = %v", rel, err)
		}
		scans = append(scans, fs)
	}
	return scans
}

// TestDetectOrphansEndToEndCleanRelease drives the real ScanFile -> Build ->
// DetectOrphans pipeline (not hand-built Resource.Text) for a signal that is
// created with a storage binding and disconnected by name in disable().
func TestDetectOrphansEndToEndCleanRelease(t *testing.T) {
	dir := writeOrphanExtFiles(t, map[string]string{
		"extension.js": `
class Extension {
    enable() {
        this._signalId = global.display.connect('notify::focus-window', () => {});
    }
    disable() {
        global.display.disconnect(this._signalId);
    }
}
`,
	})
	g := Build(scanAll(t, dir, "extension.js"))
	orphans := DetectOrphans(g)
	if len(orphans) != 0 {
		t.Errorf("DetectOrphans() = %v, want no orphans for a by-name disconnect in disable()", orphans)
	}
}

// TestDetectOrphansEndToEndBindingNotReleased is the regression case the
// Resource.Text/extractRefFromCreate bug masked: a storage binding that is
// never disconnected anywhere in the file must still be reported as an
// orphan once the pipeline can actually see the binding name.
func TestDetectOrphansEndToEndBindingNotReleased(t *testing.T) {
	dir := writeOrphanExtFiles(t, map[string]string{
		"extension.js": `
class Extension {
    enable() {
        this._signalId = global.display.connect('notify::focus-window', () => {});
    }
    disable() {
    }
}
`,
	})
	g := Build(scanAll(t, dir, "extension.js"))
	orphans := DetectOrphans(g)
	if len(orphans) != 1 {
		t.Fatalf("DetectOrphans() = %v, want 1 orphan for an unreleased this._signalId", orphans)
	}
}

func TestDetectOrphansNoLifecycleMethod(t *testing.T) {
	fs := &FileScan{
		Path:    "indicator.js",
		Creates: []Resource{{Kind: Signal, Line: 10, Text: ".connect('clicked'"}},
	}
	g := Build([]*FileScan{fs})
	orphans := DetectOrphans(g)
	if len(orphans) != 1 {
		t.Fatalf("DetectOrphans() = %v, want 1 orphan", orphans)
	}
	if orphans[0].Reason == "" {
		t.Error("Reason is empty")
	}
}

func TestDetectOrphansParentDoesNotCallDestroy(t *testing.T) {
	child := &FileScan{
		Path:       "indicator.js",
		Creates:    []Resource{{Kind: Signal, Line: 5, Text: ".connect('clicked'"}},
		HasDestroy: true,
	}
	parent := &FileScan{
		Path:           "extension.js",
		Imports:        map[string]string{"Indicator": "indicator.js"},
		Instantiations: []Instantiation{{Ref: "this._indicator", ClassName: "Indicator", Destroyed: false}},
	}
	g := Build([]*FileScan{child, parent})
	orphans := DetectOrphans(g)
	if len(orphans) != 1 {
		t.Fatalf("DetectOrphans() = %v, want 1 orphan", orphans)
	}
}

func TestDetectOrphansCleanRelease(t *testing.T) {
	child := &FileScan{
		Path:            "indicator.js",
		Creates:         []Resource{{Kind: Signal, Line: 5, Text: "this._id = global.connect('clicked'"}},
		HasDestroy:      true,
		DestroyRefsText: "this._id = null; /* already disconnected */",
		NulledRefs:      map[string]bool{"this._id": true},
	}
	parent := &FileScan{
		Path:           "extension.js",
		Imports:        map[string]string{"Indicator": "indicator.js"},
		Instantiations: []Instantiation{{Ref: "this._indicator", ClassName: "Indicator", Destroyed: true}},
	}
	g := Build([]*FileScan{child, parent})
	orphans := DetectOrphans(g)
	if len(orphans) != 0 {
		t.Errorf("DetectOrphans() = %v, want no orphans for a nulled ref", orphans)
	}
}

func TestDetectOrphansWidgetChildAdoptionExempt(t *testing.T) {
	fs := &FileScan{
		Path:       "indicator.js",
		Creates:    []Resource{{Kind: Widget, Line: 3, Text: "this._icon = new St.Icon()"}},
		HasDestroy: true,
		ChildRefs:  map[string]bool{"this._icon": true},
	}
	g := Build([]*FileScan{fs})
	orphans := DetectOrphans(g)
	if len(orphans) != 0 {
		t.Errorf("DetectOrphans() = %v, want no orphans for a widget adopted into the actor tree", orphans)
	}
}

func TestDetectOrphansDBusProxyMakerExempt(t *testing.T) {
	fs := &FileScan{
		Path:       "proxy.js",
		Creates:    []Resource{{Kind: DBus, Line: 7, Text: "this._proxy = makeProxyWrapper(iface)"}},
		HasDestroy: true,
	}
	g := Build([]*FileScan{fs})
	orphans := DetectOrphans(g)
	if len(orphans) != 0 {
		t.Errorf("DetectOrphans() = %v, want no orphans for makeProxyWrapper", orphans)
	}
}
