// Package scenario loads the spawn-wave tables that drive a simulation run.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Wave spawns Count entities at Tick, and again every Every ticks after it
// when Every > 0 (at most Times firings when Times > 0).
type Wave struct {
	Tick     uint64     `yaml:"tick"`
	Every    uint64     `yaml:"every"`
	Times    int        `yaml:"times"`
	Count    int        `yaml:"count"`
	Name     string     `yaml:"name"`
	Position [2]float32 `yaml:"position"`
	Velocity [2]float32 `yaml:"velocity"`
	Lifetime int        `yaml:"lifetime"` // ticks; 0 = immortal
	Spread   float32    `yaml:"spread"`   // position jitter radius
}

type scenarioFile struct {
	Waves []Wave `yaml:"waves"`
}

// Scenario holds all waves sorted by first tick.
type Scenario struct {
	waves []Wave
}

func New(waves ...Wave) (*Scenario, error) {
	for i, w := range waves {
		if err := w.validate(); err != nil {
			return nil, fmt.Errorf("wave %d (%s): %w", i, w.Name, err)
		}
	}
	sorted := append([]Wave(nil), waves...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })
	return &Scenario{waves: sorted}, nil
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return New(f.Waves...)
}

// Count returns the number of waves.
func (s *Scenario) Count() int {
	return len(s.waves)
}

// WavesAt returns the waves firing at tick.
func (s *Scenario) WavesAt(tick uint64) []Wave {
	var out []Wave
	for _, w := range s.waves {
		if w.Tick > tick {
			break
		}
		if w.firesAt(tick) {
			out = append(out, w)
		}
	}
	return out
}

func (w Wave) firesAt(tick uint64) bool {
	if tick < w.Tick {
		return false
	}
	if tick == w.Tick {
		return true
	}
	if w.Every == 0 {
		return false
	}
	d := tick - w.Tick
	if d%w.Every != 0 {
		return false
	}
	return w.Times <= 0 || d/w.Every < uint64(w.Times)
}

func (w Wave) validate() error {
	if w.Count <= 0 {
		return fmt.Errorf("count must be > 0, got %d", w.Count)
	}
	if w.Lifetime < 0 {
		return fmt.Errorf("lifetime must be >= 0, got %d", w.Lifetime)
	}
	if w.Times < 0 {
		return fmt.Errorf("times must be >= 0, got %d", w.Times)
	}
	if w.Spread < 0 {
		return fmt.Errorf("spread must be >= 0, got %v", w.Spread)
	}
	if w.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
