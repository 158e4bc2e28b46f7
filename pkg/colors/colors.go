// Package colors provides the driver display color mapping injected into
// the comparison engine. The mapping is explicit configuration, not
// process-wide state: callers construct a Registry and pass it on.
package colors

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// palette used when a driver has no configured color, picked by request
// position (purple, blue, green).
var defaultPalette = []string{"#A259F7", "#00B4D8", "#43FF64"}

type fileFormat struct {
	Palette []string          `yaml:"palette" validate:"omitempty,dive,hexcolor"`
	Drivers map[string]string `yaml:"drivers" validate:"omitempty,dive,hexcolor"`
}

type Registry struct {
	mu      sync.RWMutex
	drivers map[string]string
	palette []string
}

// New creates a registry from an explicit driver->hex mapping.
// A nil mapping is valid; every lookup then falls back to the palette.
func New(drivers map[string]string) *Registry {
	ret := &Registry{
		drivers: make(map[string]string, len(drivers)),
		palette: defaultPalette,
	}
	for k, v := range drivers {
		ret.drivers[k] = v
	}
	return ret
}

// Load reads a yaml color file:
//
//	palette: ["#A259F7", "#00B4D8"]
//	drivers:
//	  VER: "#123456"
func Load(path string) (*Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading color file: %w", err)
	}
	var cfg fileFormat
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing color file %s: %w", path, err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid color file %s: %w", path, err)
	}
	ret := New(cfg.Drivers)
	if len(cfg.Palette) > 0 {
		ret.palette = cfg.Palette
	}
	return ret, nil
}

// Replace swaps the registry content, used on config file reload.
func (r *Registry) Replace(other *Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers = other.drivers
	r.palette = other.palette
}

// ColorFor returns the configured color of the driver, or the palette color
// for the driver's position in the request when none is configured.
func (r *Registry) ColorFor(driver string, position int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.drivers[driver]; ok {
		return c
	}
	return r.palette[position%len(r.palette)]
}

// Colors resolves one color per driver, in request order.
func (r *Registry) Colors(drivers []string) []string {
	ret := make([]string, len(drivers))
	for i, d := range drivers {
		ret[i] = r.ColorFor(d, i)
	}
	return ret
}
