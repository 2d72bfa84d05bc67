package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/coordframes/internal/frames"
	"github.com/banshee-data/coordframes/internal/units"
)

// DefaultConfigPath is the path to the example frame tree shipped with the
// repository.
const DefaultConfigPath = "config/field2018.json"

// FrameTreeConfig is the root of a frame tree file: the frames, their
// calibrated parent-relative transforms, and optional points to convert.
type FrameTreeConfig struct {
	Name       *string       `json:"name,omitempty"`
	LengthUnit *string       `json:"length_unit,omitempty"` // only "m" is accepted
	Frames     []FrameConfig `json:"frames"`
	Points     []PointConfig `json:"points,omitempty"`
}

// FrameConfig declares one frame and its pose inside its parent.
// An empty Parent attaches the frame to the root.
type FrameConfig struct {
	Name     string  `json:"name"`
	Parent   string  `json:"parent,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"` // radians
}

// PointConfig is a pose expressed in a named frame.
type PointConfig struct {
	Frame        string  `json:"frame"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Rotation     float64 `json:"rotation"`
	Interpolated bool    `json:"interpolated,omitempty"`
}

var ErrNoFrames = errors.New("config declares no frames")

func ptrString(v string) *string { return &v }

// EmptyFrameTreeConfig returns a FrameTreeConfig with every optional field
// nil.
func EmptyFrameTreeConfig() *FrameTreeConfig {
	return &FrameTreeConfig{}
}

// LoadFrameTreeConfig loads a FrameTreeConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadFrameTreeConfig(path string) (*FrameTreeConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyFrameTreeConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the example frame tree from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *FrameTreeConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/frames/fieldframes/
	}
	for _, path := range candidates {
		if cfg, err := LoadFrameTreeConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks unit labels, finiteness of every number and the shape of
// the frame tree. Cycles and unknown parents are reported here so a bad file
// fails at load time.
func (c *FrameTreeConfig) Validate() error {
	if c.LengthUnit != nil && !units.IsValid(*c.LengthUnit) {
		return fmt.Errorf("length_unit must be one of %s, got %q", units.GetValidUnitsString(), *c.LengthUnit)
	}
	if len(c.Frames) == 0 {
		return ErrNoFrames
	}

	for _, f := range c.Frames {
		if !finite(f.X, f.Y, f.Rotation) {
			return fmt.Errorf("frame %q has a non-finite transform", f.Name)
		}
	}

	h, err := frames.NewNamedHierarchy(c.FrameDefs())
	if err != nil {
		return err
	}

	for i, p := range c.Points {
		if _, ok := h.Lookup(p.Frame); !ok {
			return fmt.Errorf("point %d: unknown frame %q", i, p.Frame)
		}
		if !finite(p.X, p.Y, p.Rotation) {
			return fmt.Errorf("point %d: non-finite coordinates", i)
		}
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// GetName returns the tree name or the default.
func (c *FrameTreeConfig) GetName() string {
	if c.Name == nil || *c.Name == "" {
		return "frames" // default
	}
	return *c.Name
}

// GetLengthUnit returns the length unit label or the default.
func (c *FrameTreeConfig) GetLengthUnit() string {
	if c.LengthUnit == nil {
		return units.Meter // default
	}
	return *c.LengthUnit
}

// FrameDefs returns the frame declarations in file order.
func (c *FrameTreeConfig) FrameDefs() []frames.FrameDef {
	defs := make([]frames.FrameDef, len(c.Frames))
	for i, f := range c.Frames {
		defs[i] = frames.FrameDef{Name: f.Name, Parent: f.Parent}
	}
	return defs
}

// Build constructs the hierarchy and a registry populated with every
// configured frame transform.
func (c *FrameTreeConfig) Build() (*frames.NamedHierarchy, *frames.Registry[frames.NamedFrame], error) {
	h, err := frames.NewNamedHierarchy(c.FrameDefs())
	if err != nil {
		return nil, nil, err
	}
	reg, err := frames.NewRegistry[frames.NamedFrame](h)
	if err != nil {
		return nil, nil, err
	}
	for i, f := range c.Frames {
		reg.Set(frames.NamedFrame(i), frames.NewTransform(
			units.Meters(f.X), units.Meters(f.Y), units.Radians(f.Rotation)))
	}
	return h, reg, nil
}

// ConfiguredPoint is a point resolved against a NamedHierarchy.
type ConfiguredPoint struct {
	Point        frames.Point[frames.NamedFrame]
	Interpolated bool
}

// ResolvePoints maps the configured points onto frames of h.
func (c *FrameTreeConfig) ResolvePoints(h *frames.NamedHierarchy) ([]ConfiguredPoint, error) {
	out := make([]ConfiguredPoint, 0, len(c.Points))
	for i, p := range c.Points {
		f, ok := h.Lookup(p.Frame)
		if !ok {
			return nil, fmt.Errorf("point %d: unknown frame %q", i, p.Frame)
		}
		out = append(out, ConfiguredPoint{
			Point:        frames.NewPoint(f, units.Meters(p.X), units.Meters(p.Y), units.Radians(p.Rotation)),
			Interpolated: p.Interpolated,
		})
	}
	return out, nil
}
