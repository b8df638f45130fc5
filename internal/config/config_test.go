package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	if !cfg.AlwaysRebuildLast {
		t.Errorf("expected alwaysRebuildLast default true, got %v", cfg.AlwaysRebuildLast)
	}
	if len(cfg.MergeWarnCodes) != 1 || cfg.MergeWarnCodes[0] != 1 {
		t.Errorf("expected mergeWarnCodes [1], got %v", cfg.MergeWarnCodes)
	}
	if cfg.NoMerge || cfg.NoSkip || cfg.PartsTimecodes {
		t.Errorf("expected toggles off by default, got %+v", cfg)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ControlFile != "quickcut.csv" {
		t.Errorf("expected default control file 'quickcut.csv', got %s", cfg.ControlFile)
	}
}

func TestLoad_WithFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)

	configDir := filepath.Join(tempDir, ".config", "quickcut")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	yamlContent := `
mkvmergeBin: /opt/mkvtoolnix/mkvmerge
partsTimecodes: true
mergeWarnCodes: []
profiles:
  preview:
    noMerge: true
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MkvmergeBin != "/opt/mkvtoolnix/mkvmerge" {
		t.Errorf("expected mkvmergeBin from file, got %s", cfg.MkvmergeBin)
	}
	if !cfg.PartsTimecodes {
		t.Errorf("expected partsTimecodes true")
	}
	if len(cfg.MergeWarnCodes) != 0 {
		t.Errorf("expected mergeWarnCodes cleared, got %v", cfg.MergeWarnCodes)
	}
	if !cfg.AlwaysRebuildLast {
		t.Errorf("expected untouched default alwaysRebuildLast true")
	}

	if !cfg.ApplyProfile("preview") {
		t.Fatalf("profile 'preview' not found")
	}
	if !cfg.NoMerge {
		t.Errorf("expected profile to set noMerge")
	}
	if !cfg.PartsTimecodes {
		t.Errorf("expected profile to leave partsTimecodes alone")
	}
	if cfg.ApplyProfile("missing") {
		t.Errorf("expected unknown profile to be reported")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)

	configDir := filepath.Join(tempDir, ".config", "quickcut")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("noMerge: [oops"), 0644)

	if _, err := Load(); err == nil {
		t.Errorf("expected decode error")
	}
}
