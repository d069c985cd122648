package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Apply.Color {
		t.Error("color should default to on")
	}
	if cfg.Apply.PreviewMode {
		t.Error("preview mode should default to off")
	}
	if cfg.Workspace.Root == "" {
		t.Error("workspace root should default to the current directory")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
workspace:
  root: ` + dir + `
log:
  path: vpatch.log
  development: true
apply:
  preview_mode: true
  color: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Workspace.Root != dir {
		t.Errorf("root = %q, want %q", cfg.Workspace.Root, dir)
	}
	if cfg.Log.Path != "vpatch.log" || !cfg.Log.Development {
		t.Errorf("log config = %+v", cfg.Log)
	}
	if !cfg.Apply.PreviewMode || cfg.Apply.Color {
		t.Errorf("apply config = %+v", cfg.Apply)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Workspace.Root = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed on good config: %v", err)
	}

	cfg.Workspace.Root = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject empty workspace root")
	}

	cfg.Workspace.Root = filepath.Join(t.TempDir(), "missing")
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject nonexistent workspace root")
	}
}
