// Package config loads the optional odometer.yaml configuration and
// resolves it against library defaults. A partial file only overrides the
// fields it names; zero values mean "use the default".
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/odometer/pkg/animation"
	"github.com/go-drift/odometer/pkg/numfmt"
)

// Defaults applied when odometer.yaml is absent or leaves fields unset.
const (
	DefaultDuration   = 600 * time.Millisecond
	DefaultCurveName  = "ease-out"
	DefaultSlotWidth  = 9
	DefaultSlotHeight = 16
)

// Config represents the optional odometer.yaml configuration.
type Config struct {
	Format     FormatConfig     `yaml:"format"`
	Transition TransitionConfig `yaml:"transition"`
	Slot       SlotConfig       `yaml:"slot"`
}

// FormatConfig mirrors numfmt.Options in yaml form.
type FormatConfig struct {
	FractionDigits   int    `yaml:"fractionDigits,omitempty"`
	Grouping         bool   `yaml:"grouping,omitempty"`
	GroupingSymbol   string `yaml:"groupingSymbol,omitempty"`
	GroupSize        int    `yaml:"groupSize,omitempty"`
	DecimalSeparator string `yaml:"decimalSeparator,omitempty"`

	// Loop is a pointer so an absent key and an explicit false stay
	// distinct; wrap-around rolling is on by default.
	Loop *bool `yaml:"loop,omitempty"`
}

// TransitionConfig contains animation settings. Duration uses
// time.ParseDuration syntax, e.g. "600ms" or "1.5s".
type TransitionConfig struct {
	Duration string `yaml:"duration,omitempty"`
	Curve    string `yaml:"curve,omitempty"`
}

// SlotConfig contains the pixel geometry of one digit cell, used by
// renderers that rasterize the slot row.
type SlotConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string // empty outside a Go module
	Options    numfmt.Options
	Duration   time.Duration
	CurveName  string
	Curve      func(float64) float64
	SlotWidth  int
	SlotHeight int
}

// LoadOptional reads odometer.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "odometer.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read odometer.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse odometer.yaml: %w", err)
	}

	return &cfg, nil
}

// LoadFile reads an explicit configuration file, which must exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Resolve loads odometer.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(dir)
}

// Resolve fills in defaults, validates the format options, and maps the
// curve name onto an easing function. The module path is read from dir's
// go.mod when one exists; hosts outside a module get an empty path.
func (c *Config) Resolve(dir string) (*Resolved, error) {
	opts := numfmt.DefaultOptions()
	opts.FractionDigits = c.Format.FractionDigits
	opts.EnableGrouping = c.Format.Grouping
	if c.Format.GroupingSymbol != "" {
		opts.GroupingSymbol = c.Format.GroupingSymbol
	}
	if c.Format.GroupSize != 0 {
		opts.GroupSize = c.Format.GroupSize
	}
	if c.Format.DecimalSeparator != "" {
		opts.DecimalSeparator = c.Format.DecimalSeparator
	}
	if c.Format.Loop != nil {
		opts.Loop = *c.Format.Loop
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("odometer.yaml: %w", err)
	}

	duration := DefaultDuration
	if c.Transition.Duration != "" {
		d, err := time.ParseDuration(c.Transition.Duration)
		if err != nil {
			return nil, fmt.Errorf("invalid transition.duration %q: %w", c.Transition.Duration, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("transition.duration cannot be negative (got %q)", c.Transition.Duration)
		}
		duration = d
	}

	curveName := c.Transition.Curve
	if curveName == "" {
		curveName = DefaultCurveName
	}
	curve, err := ResolveCurve(curveName)
	if err != nil {
		return nil, err
	}

	slotWidth, err := resolveExtent("slot.width", c.Slot.Width, DefaultSlotWidth)
	if err != nil {
		return nil, err
	}
	slotHeight, err := resolveExtent("slot.height", c.Slot.Height, DefaultSlotHeight)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath(dir),
		Options:    opts,
		Duration:   duration,
		CurveName:  curveName,
		Curve:      curve,
		SlotWidth:  slotWidth,
		SlotHeight: slotHeight,
	}, nil
}

// ResolveCurve maps a configuration curve name onto an easing function.
// The empty name selects the default.
func ResolveCurve(name string) (func(float64) float64, error) {
	switch name {
	case "linear":
		return animation.LinearCurve, nil
	case "ease":
		return animation.Ease, nil
	case "ease-in":
		return animation.EaseIn, nil
	case "", "ease-out":
		return animation.EaseOut, nil
	case "ease-in-out":
		return animation.EaseInOut, nil
	}
	return nil, fmt.Errorf("unknown curve %q (use linear, ease, ease-in, ease-out, or ease-in-out)", name)
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func resolveExtent(field string, value, fallback int) (int, error) {
	if value < 0 {
		return 0, fmt.Errorf("%s must be positive (got %d)", field, value)
	}
	if value == 0 {
		return fallback, nil
	}
	return value, nil
}

func modulePath(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}
