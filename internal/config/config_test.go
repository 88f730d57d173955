package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "engine.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeConfig(t, `
[render]
backend = "terminal"
frame_rate = 30

[collision]
cell_size = 20.0

[database]
enabled = true
conn_max_lifetime = "5m"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Render.Backend != "terminal" || cfg.Render.FrameRate != 30 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Collision.CellSize != 20 || cfg.Collision.Capacity != 1000 {
		t.Errorf("collision = %+v", cfg.Collision)
	}
	if !cfg.Database.Enabled || cfg.Database.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Audio.Backend != "none" {
		t.Errorf("audio default lost: %q", cfg.Audio.Backend)
	}
	if cfg.FrameInterval() != time.Second/30 {
		t.Errorf("FrameInterval = %v", cfg.FrameInterval())
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	p := writeConfig(t, "[render]\nbackend = \"directx\"\n")
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "render.backend") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestShippedConfigLoads(t *testing.T) {
	if _, err := Load(filepath.Join("..", "..", "config", "engine.toml")); err != nil {
		t.Fatal(err)
	}
}
