package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim     SimConfig     `toml:"sim"`
	Logging LoggingConfig `toml:"logging"`
	Profile ProfileConfig `toml:"profile"`
}

type SimConfig struct {
	Ticks           int           `toml:"ticks"`
	TickRate        time.Duration `toml:"tick_rate"` // 0 = run unthrottled
	InitialCapacity int           `toml:"initial_capacity"`
	Seed            int64         `toml:"seed"`
	Scenario        string        `toml:"scenario"` // YAML wave table, optional
	Scripts         string        `toml:"scripts"`  // Lua hook directory, optional
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ProfileConfig struct {
	Enabled bool   `toml:"enabled"`
	Mode    string `toml:"mode"` // "cpu", "mem" or "allocs"
	Path    string `toml:"path"`
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

func (c *Config) Validate() error {
	if c.Sim.Ticks < 0 {
		return fmt.Errorf("sim.ticks must be >= 0, got %d", c.Sim.Ticks)
	}
	if c.Sim.TickRate < 0 {
		return fmt.Errorf("sim.tick_rate must be >= 0, got %s", c.Sim.TickRate)
	}
	if c.Sim.InitialCapacity < 0 {
		return fmt.Errorf("sim.initial_capacity must be >= 0, got %d", c.Sim.InitialCapacity)
	}
	switch c.Profile.Mode {
	case "cpu", "mem", "allocs":
	default:
		return fmt.Errorf("profile.mode %q not one of cpu, mem, allocs", c.Profile.Mode)
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		Sim: SimConfig{
			Ticks:           600,
			InitialCapacity: 1024,
			Seed:            1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Mode: "cpu",
			Path: ".",
		},
	}
}
