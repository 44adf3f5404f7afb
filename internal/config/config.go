// Package config resolves default paths and scan settings for the CLI,
// adapted from the teacher's internal/config.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultConfigDir = ".config/ego-lint"
	DefaultRulesFile = "rules.yaml"
	DefaultDiagFile  = "diagnostics.jsonl"
)

// DefaultSubprocessTimeout bounds the resource-graph subprocess boundary.
const DefaultSubprocessTimeout = 30 * time.Second

// Config holds resolved paths plus the scanner settings for one invocation.
type Config struct {
	RulesPath string
	DiagPath  string
	ConfigDir string
	Scanner   ScannerConfig
}

// ScannerConfig controls which checks run and how the subprocess boundary
// behaves, the analogue of the teacher's AnalyzerConfig.
type ScannerConfig struct {
	// EnabledChecks names heuristic families. No command reads this field;
	// every heuristic family runs whatever it holds.
	EnabledChecks []string
	// SubprocessTimeout bounds the resource-graph delegation boundary (§5).
	SubprocessTimeout time.Duration
	// MaxFileBytes is a file-size limit carried in the config. No scanner
	// reads it, so files of any size are scanned in full.
	MaxFileBytes int64
}

// DefaultScannerConfig mirrors the teacher's DefaultAnalyzerConfig shape.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		EnabledChecks:     nil,
		SubprocessTimeout: DefaultSubprocessTimeout,
		MaxFileBytes:      2 << 20, // 2 MiB
	}
}

// Load resolves rulesPath/diagPath to explicit values, falling back to
// ~/.config/ego-lint/ defaults when empty.
func Load(rulesPath, diagPath string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := ensureDir(configDir); err != nil {
		return nil, err
	}

	cfg := &Config{ConfigDir: configDir, Scanner: DefaultScannerConfig()}

	if rulesPath != "" {
		cfg.RulesPath = rulesPath
	} else {
		cfg.RulesPath = filepath.Join(configDir, DefaultRulesFile)
	}

	if diagPath != "" {
		cfg.DiagPath = diagPath
	} else {
		cfg.DiagPath = filepath.Join(configDir, DefaultDiagFile)
	}

	return cfg, nil
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
