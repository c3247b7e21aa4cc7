// Package preset loads named table settings from YAML files.
package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/boardclock/internal/timer"
)

// Preset is a named, validated set of table settings.
type Preset struct {
	Name        string
	Description string
	Settings    timer.Settings
}

// yamlPresetFile is the top-level YAML structure for preset files.
type yamlPresetFile struct {
	Presets []yamlPreset `yaml:"presets"`
}

// yamlPreset is the YAML representation of a preset. Unset fields take DefaultSettings values.
type yamlPreset struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	PlayerCount     *int   `yaml:"player_count"`
	BankTimeMinutes *int   `yaml:"bank_time_minutes"`
	TurnTimeSeconds *int   `yaml:"turn_time_seconds"`
	TeamBankMinutes *int   `yaml:"team_bank_minutes"`
	EnableTurnTime  *bool  `yaml:"enable_turn_time"`
}

func (y yamlPreset) convert() Preset {
	s := timer.DefaultSettings()
	if y.PlayerCount != nil {
		s.PlayerCount = *y.PlayerCount
	}
	if y.BankTimeMinutes != nil {
		s.BankTimeMinutes = *y.BankTimeMinutes
	}
	if y.TurnTimeSeconds != nil {
		s.TurnTimeSeconds = *y.TurnTimeSeconds
	}
	if y.TeamBankMinutes != nil {
		s.TeamBankMinutes = *y.TeamBankMinutes
	}
	if y.EnableTurnTime != nil {
		s.EnableTurnTime = *y.EnableTurnTime
	}
	return Preset{
		Name:        strings.ToLower(strings.TrimSpace(y.Name)),
		Description: y.Description,
		Settings:    s,
	}
}

// LoadFromBytes parses and validates presets from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the preset schema.
// Postcondition: Returns validated presets or a non-nil error.
func LoadFromBytes(data []byte) ([]Preset, error) {
	var file yamlPresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing preset YAML: %w", err)
	}
	out := make([]Preset, 0, len(file.Presets))
	for i, y := range file.Presets {
		p := y.convert()
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d: name must not be empty", i)
		}
		if err := p.Settings.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadFromFile reads and validates presets from a single YAML file.
//
// Precondition: path must point to a YAML preset file.
// Postcondition: Returns validated presets or a non-nil error.
func LoadFromFile(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file %s: %w", path, err)
	}
	presets, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return presets, nil
}

// LoadFromDir loads every .yaml and .yml file in dir into a Catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Catalog or the first error encountered, including duplicate names.
func LoadFromDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading preset directory %s: %w", dir, err)
	}
	c := NewCatalog()
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		presets, err := LoadFromFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		for _, p := range presets {
			if err := c.Add(p); err != nil {
				return nil, fmt.Errorf("%s: %w", entry.Name(), err)
			}
		}
	}
	return c, nil
}

// Catalog indexes presets by lowercase name.
type Catalog struct {
	presets map[string]Preset
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{presets: make(map[string]Preset)}
}

// Add registers p.
//
// Postcondition: Returns an error if a preset with the same name exists.
func (c *Catalog) Add(p Preset) error {
	if _, exists := c.presets[p.Name]; exists {
		return fmt.Errorf("duplicate preset %q", p.Name)
	}
	c.presets[p.Name] = p
	return nil
}

// Get looks up a preset by name, case-insensitively.
func (c *Catalog) Get(name string) (Preset, bool) {
	p, ok := c.presets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Names returns all preset names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of presets.
func (c *Catalog) Len() int { return len(c.presets) }
