package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/irminsul-dev/irminsul/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "irminsul.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
refdata: /data/refdata.json
required:
  - artifact
  - weapon
capture:
  frame_log: /tmp/frames.bin
export:
  output: /tmp/good.json
  filters:
    min_artifact_rarity: 4
    min_artifact_level: 16
    min_weapon_refinement: 5
storage:
  backend: s3
  dataset: my-exports
  path: bucket/prefix
  region: eu-central-1
adapter:
  type: webhook
  url: https://example.com/hook
  timeout: 30s
  headers:
    Authorization: Bearer tok
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Refdata != "/data/refdata.json" {
		t.Errorf("refdata = %q", cfg.Refdata)
	}
	if got := cfg.RequiredCategories(); len(got) != 2 || got[0] != types.CategoryArtifact {
		t.Errorf("required = %v", got)
	}
	if cfg.Capture.FrameLog != "/tmp/frames.bin" {
		t.Errorf("frame log = %q", cfg.Capture.FrameLog)
	}
	if cfg.Export.Filters.MinArtifactRarity != 4 {
		t.Errorf("min artifact rarity = %d, want override 4", cfg.Export.Filters.MinArtifactRarity)
	}
	if cfg.Export.Filters.MinArtifactLevel != 16 {
		t.Errorf("min artifact level = %d, want override 16", cfg.Export.Filters.MinArtifactLevel)
	}
	if cfg.Export.Filters.MinWeaponRefinement != 5 {
		t.Errorf("min weapon refinement = %d, want override 5", cfg.Export.Filters.MinWeaponRefinement)
	}
	// Unstated filter fields keep defaults.
	if cfg.Export.Filters.MinWeaponRarity != 3 {
		t.Errorf("min weapon rarity = %d, want default 3", cfg.Export.Filters.MinWeaponRarity)
	}
	if !cfg.Export.Filters.IncludeMaterials {
		t.Error("include_materials lost its default")
	}
	if cfg.Storage.Backend != "s3" || cfg.Storage.Region != "eu-central-1" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Adapter.Timeout.Duration != 30*time.Second {
		t.Errorf("adapter timeout = %v", cfg.Adapter.Timeout.Duration)
	}
	if cfg.Adapter.Headers["Authorization"] != "Bearer tok" {
		t.Errorf("adapter headers = %v", cfg.Adapter.Headers)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name, content string
	}{
		{"bad backend", "storage:\n  backend: ftp\n"},
		{"bad adapter", "adapter:\n  type: kafka\n"},
		{"bad category", "required:\n  - gadget\n"},
		{"bad duration", "adapter:\n  timeout: soon\n"},
		{"bad yaml", "storage: [\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, c.content)); err == nil {
				t.Errorf("config accepted: %s", c.content)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultFilters(t *testing.T) {
	cfg := Default()
	if cfg.Export.Filters.MinArtifactRarity != 5 {
		t.Errorf("default min artifact rarity = %d", cfg.Export.Filters.MinArtifactRarity)
	}
	if cfg.RequiredCategories() != nil {
		t.Errorf("default required = %v", cfg.RequiredCategories())
	}
}
