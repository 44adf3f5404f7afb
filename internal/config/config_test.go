package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadResolvesDefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	wantDir := filepath.Join(home, DefaultConfigDir)
	if cfg.ConfigDir != wantDir {
		t.Errorf("ConfigDir = %q, want %q", cfg.ConfigDir, wantDir)
	}
	if cfg.RulesPath != filepath.Join(wantDir, DefaultRulesFile) {
		t.Errorf("RulesPath = %q", cfg.RulesPath)
	}
	if cfg.DiagPath != filepath.Join(wantDir, DefaultDiagFile) {
		t.Errorf("DiagPath = %q", cfg.DiagPath)
	}
	if _, err := os.Stat(wantDir); err != nil {
		t.Errorf("config dir was not created: %v", err)
	}
}

func TestLoadHonorsExplicitPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("/custom/rules.yaml", "/custom/diag.jsonl")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RulesPath != "/custom/rules.yaml" {
		t.Errorf("RulesPath = %q", cfg.RulesPath)
	}
	if cfg.DiagPath != "/custom/diag.jsonl" {
		t.Errorf("DiagPath = %q", cfg.DiagPath)
	}
}

func TestDefaultScannerConfig(t *testing.T) {
	sc := DefaultScannerConfig()
	if sc.SubprocessTimeout != DefaultSubprocessTimeout {
		t.Errorf("SubprocessTimeout = %v, want %v", sc.SubprocessTimeout, DefaultSubprocessTimeout)
	}
	if sc.MaxFileBytes <= 0 {
		t.Errorf("MaxFileBytes = %d, want positive", sc.MaxFileBytes)
	}
}
