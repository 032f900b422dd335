package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	// defaults: total budget present, standard option set
	if cfg.Budgets["total"] != 15 {
		t.Errorf("Default total budget = %d, want 15", cfg.Budgets["total"])
	}
	if cfg.Options.Strict {
		t.Error("Default strict should be off")
	}
	if !cfg.Options.WarnOver || !cfg.Options.WarnDuplicates || !cfg.Options.OverOnly || !cfg.Options.ShowAll {
		t.Errorf("Default options = %+v", cfg.Options)
	}
	if cfg.Compile.ReportFilter != "all" {
		t.Errorf("Default report filter = %q, want all", cfg.Compile.ReportFilter)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
budgets:
  heading: 12
options:
  strict: true
  over-only: false
compile:
  debug-report: true
logging:
  console:
    level: debug
reporting:
  destination: ` + filepath.Join(tmpDir, "report.zip") + `
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	// user budgets merge over defaults
	if cfg.Budgets["heading"] != 12 {
		t.Errorf("Budgets[heading] = %d, want 12", cfg.Budgets["heading"])
	}
	if cfg.Budgets["total"] != 15 {
		t.Errorf("Budgets[total] = %d, want default 15 kept", cfg.Budgets["total"])
	}

	// user options win over defaults, unspecified flags keep defaults
	if !cfg.Options.Strict {
		t.Error("Expected strict to be true")
	}
	if cfg.Options.OverOnly {
		t.Error("Expected over-only to be false")
	}
	if !cfg.Options.WarnOver {
		t.Error("Expected warn-over to keep its default")
	}

	if !cfg.Compile.DebugReport {
		t.Error("Expected debug-report to be true")
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("Console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_UnknownOption(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
options:
  warn_over: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Fatal("LoadConfiguration() with unknown option name should fail")
	}
	if !strings.Contains(err.Error(), "warn_over") {
		t.Errorf("error should name the offending field, got: %v", err)
	}
}

func TestLoadConfiguration_BadBudget(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
budgets:
  heading: 0
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Fatal("LoadConfiguration() with non-positive budget should fail validation")
	}
}

func TestLoadConfiguration_BadVersion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("version: 2\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Fatal("LoadConfiguration() with unsupported version should fail")
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "budgets:") {
		t.Error("default configuration should carry a budgets section")
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	out, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	for _, want := range []string{"budgets:", "options:", "strict:", "warn-over:"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Dump() output missing %q", want)
		}
	}
}
