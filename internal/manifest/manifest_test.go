package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadParsesCoreFields(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"uuid": "my-extension@example.com",
		"shell-version": ["45", "46"],
		"session-modes": ["user", "unlock-dialog"],
		"description": "Does a thing",
		"settings-schema": "org.gnome.shell.extensions.my-extension"
	}`
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Read(dir)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if m.UUID != "my-extension@example.com" {
		t.Errorf("UUID = %q", m.UUID)
	}
	if len(m.ShellVersions) != 2 || m.ShellVersions[0] != 45 || m.ShellVersions[1] != 46 {
		t.Errorf("ShellVersions = %v, want [45 46]", m.ShellVersions)
	}
	if len(m.SessionModes) != 2 || m.SessionModes[1] != "unlock-dialog" {
		t.Errorf("SessionModes = %v", m.SessionModes)
	}
	if m.Description != "Does a thing" {
		t.Errorf("Description = %q", m.Description)
	}
}

func TestReadMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := Read(dir); err == nil {
		t.Error("Read() error = nil, want error for missing metadata.json")
	}
}

func TestLoadOverridesMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	o, err := LoadOverrides(dir)
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v, want nil for missing file", err)
	}
	if o.Disabled("lifecycle/enable-disable") {
		t.Error("Disabled() = true with no overrides file present")
	}
}

func TestLoadOverridesDisabledChecks(t *testing.T) {
	dir := t.TempDir()
	content := "disabled-checks:\n  - lifecycle/enable-disable\nignore-dirs:\n  - vendor\n"
	if err := os.WriteFile(filepath.Join(dir, ".ego-lint.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	o, err := LoadOverrides(dir)
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}
	if !o.Disabled("lifecycle/enable-disable") {
		t.Error("Disabled() = false, want true")
	}
	if o.Disabled("quality/empty-catch") {
		t.Error("Disabled() = true for an unrelated check")
	}
}
