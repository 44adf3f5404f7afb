package scanfs

import (
	"testing"
)

func TestGlobDoubleStarAndSkipDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extension.js", "")
	writeFile(t, dir, "lib/a.js", "")
	writeFile(t, dir, "lib/nested/b.js", "")
	writeFile(t, dir, "node_modules/dep/c.js", "")

	matches, err := Glob(dir, "**/*.js")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	want := map[string]bool{"extension.js": true, "lib/a.js": true, "lib/nested/b.js": true}
	if len(matches) != len(want) {
		t.Fatalf("Glob() = %v, want keys of %v", matches, want)
	}
	for _, m := range matches {
		if !want[m] {
			t.Errorf("unexpected match %q", m)
		}
	}
}

func TestGlobBareFilename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "metadata.json", "{}")

	matches, err := Glob(dir, "metadata.json")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(matches) != 1 || matches[0] != "metadata.json" {
		t.Errorf("Glob() = %v, want [metadata.json]", matches)
	}
}
