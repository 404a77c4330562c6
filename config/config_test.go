package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Scene.Step() != 10*time.Minute {
		t.Errorf("expected 10m step, got %v", cfg.Scene.Step())
	}
	if cfg.Badge.Size != 128 || cfg.Badge.Supersample != 1 {
		t.Errorf("unexpected badge defaults %+v", cfg.Badge)
	}
	if cfg.Ephemeris.Engine != "suncalc" {
		t.Errorf("expected suncalc engine, got %s", cfg.Ephemeris.Engine)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skydome.yaml")
	content := `
scene:
  step_minutes: 5
  include_below_horizon: true
  dark_mode: true
ephemeris:
  engine: meeus
geocode:
  timeout: 2s
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scene.Step() != 5*time.Minute || !cfg.Scene.IncludeBelowHorizon || !cfg.Scene.DarkMode {
		t.Errorf("scene not loaded: %+v", cfg.Scene)
	}
	if cfg.Ephemeris.Engine != "meeus" || cfg.Geocode.Timeout != 2*time.Second || cfg.Logging.Level != "debug" {
		t.Errorf("sections not loaded: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.Scene.Radius != 1 || cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("defaults lost: radius=%v addr=%s", cfg.Scene.Radius, cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("scene: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
	cfg, err := Load("")
	if err != nil || cfg.Scene.StepMinutes != 10 {
		t.Errorf("empty path: %v %v", cfg, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"radius", func(c *Config) { c.Scene.Radius = 0 }, "scene.radius"},
		{"step", func(c *Config) { c.Scene.StepMinutes = -1 }, "scene.step_minutes"},
		{"point size", func(c *Config) { c.Scene.PointSize = 0 }, "scene.point_size"},
		{"engine", func(c *Config) { c.Ephemeris.Engine = "vsop87" }, "ephemeris.engine"},
		{"badge", func(c *Config) { c.Badge.Size = 2 }, "badge.size"},
		{"cache", func(c *Config) { c.Cache.Trajectories = -3 }, "cache.trajectories"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
