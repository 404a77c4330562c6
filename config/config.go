// Package config loads skydome settings: defaults, then a YAML file, then
// command-line overrides applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/echoflaresat/skydome/ephem"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Scene     SceneConfig     `yaml:"scene"`
	Ephemeris EphemerisConfig `yaml:"ephemeris"`
	Geocode   GeocodeConfig   `yaml:"geocode"`
	Badge     BadgeConfig     `yaml:"badge"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SceneConfig holds the sampling and geometry settings.
type SceneConfig struct {
	Radius              float64 `yaml:"radius"`
	StepMinutes         int     `yaml:"step_minutes"`
	IncludeBelowHorizon bool    `yaml:"include_below_horizon"`
	PointSize           float64 `yaml:"point_size"`
	DarkMode            bool    `yaml:"dark_mode"`
}

// Step is the sampling interval.
func (s SceneConfig) Step() time.Duration {
	return time.Duration(s.StepMinutes) * time.Minute
}

type EphemerisConfig struct {
	Engine string `yaml:"engine"` // suncalc | meeus
}

type GeocodeConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheSize int           `yaml:"cache_size"`
}

type BadgeConfig struct {
	Size        int `yaml:"size"`
	Supersample int `yaml:"supersample"`
}

type CacheConfig struct {
	Trajectories int `yaml:"trajectories"` // 0 disables the trajectory cache
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Scene: SceneConfig{
			Radius:      1,
			StepMinutes: 10,
			PointSize:   0.035,
		},
		Ephemeris: EphemerisConfig{Engine: "suncalc"},
		Geocode: GeocodeConfig{
			URL:       "https://geocoding-api.open-meteo.com/v1/search",
			Timeout:   8 * time.Second,
			CacheSize: 256,
		},
		Badge: BadgeConfig{Size: 128, Supersample: 1},
		Cache: CacheConfig{Trajectories: 64},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Scene.Radius <= 0 {
		errs = append(errs, fmt.Errorf("scene.radius must be positive, got %v", c.Scene.Radius))
	}
	if c.Scene.StepMinutes <= 0 {
		errs = append(errs, fmt.Errorf("scene.step_minutes must be positive, got %d", c.Scene.StepMinutes))
	}
	if c.Scene.PointSize <= 0 {
		errs = append(errs, fmt.Errorf("scene.point_size must be positive, got %v", c.Scene.PointSize))
	}
	if _, err := ephem.ByName(c.Ephemeris.Engine); err != nil {
		errs = append(errs, fmt.Errorf("ephemeris.engine: %w", err))
	}
	if c.Geocode.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("geocode.timeout must be positive, got %v", c.Geocode.Timeout))
	}
	if c.Geocode.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("geocode.cache_size must not be negative, got %d", c.Geocode.CacheSize))
	}
	if c.Badge.Size <= 4 {
		errs = append(errs, fmt.Errorf("badge.size must be larger than 4, got %d", c.Badge.Size))
	}
	if c.Badge.Supersample <= 0 {
		errs = append(errs, fmt.Errorf("badge.supersample must be positive, got %d", c.Badge.Supersample))
	}
	if c.Cache.Trajectories < 0 {
		errs = append(errs, fmt.Errorf("cache.trajectories must not be negative, got %d", c.Cache.Trajectories))
	}
	return errors.Join(errs...)
}
