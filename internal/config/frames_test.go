package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/coordframes/internal/frames"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFrameTreeConfig(t *testing.T) {
	path := writeConfig(t, "tree.json", `{
  "name": "bench",
  "length_unit": "m",
  "frames": [
    {"name": "world"},
    {"name": "arm", "parent": "world", "x": 1, "y": 2, "rotation": 0.5}
  ],
  "points": [
    {"frame": "arm", "x": 0.1, "y": 0.2, "rotation": 0.3, "interpolated": true}
  ]
}`)

	cfg, err := LoadFrameTreeConfig(path)
	if err != nil {
		t.Fatalf("LoadFrameTreeConfig() error = %v", err)
	}
	if cfg.GetName() != "bench" {
		t.Errorf("GetName() = %q, want bench", cfg.GetName())
	}
	if cfg.GetLengthUnit() != "m" {
		t.Errorf("GetLengthUnit() = %q, want m", cfg.GetLengthUnit())
	}
	if len(cfg.Frames) != 2 || cfg.Frames[1].Parent != "world" {
		t.Fatalf("unexpected frames: %+v", cfg.Frames)
	}
	if len(cfg.Points) != 1 || !cfg.Points[0].Interpolated {
		t.Fatalf("unexpected points: %+v", cfg.Points)
	}
}

func TestLoadFrameTreeConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "tree.yaml", `{}`, "must have .json extension"},
		{"bad json", "tree.json", `{"frames": [`, "failed to parse config JSON"},
		{"no frames", "tree.json", `{"frames": []}`, "no frames"},
		{"bad unit", "tree.json", `{"length_unit": "ft", "frames": [{"name": "a"}]}`, "length_unit must be one of m"},
		{"unknown parent", "tree.json", `{"frames": [{"name": "a", "parent": "b"}]}`, "not a member"},
		{"duplicate", "tree.json", `{"frames": [{"name": "a"}, {"name": "a"}]}`, "duplicate frame name"},
		{"cycle", "tree.json", `{"frames": [{"name": "a", "parent": "b"}, {"name": "b", "parent": "a"}]}`, "cycle"},
		{"unknown point frame", "tree.json", `{"frames": [{"name": "a"}], "points": [{"frame": "z"}]}`, "unknown frame"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			_, err := LoadFrameTreeConfig(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFrameTreeConfig_MissingFile(t *testing.T) {
	_, err := LoadFrameTreeConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "failed to stat") {
		t.Errorf("error = %v, want stat failure", err)
	}
}

func TestLoadFrameTreeConfig_TooLarge(t *testing.T) {
	body := `{"frames": [{"name": "a"}], "name": "` + strings.Repeat("x", 1024*1024) + `"}`
	path := writeConfig(t, "big.json", body)
	_, err := LoadFrameTreeConfig(path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("error = %v, want size failure", err)
	}
}

func TestValidate_NonFinite(t *testing.T) {
	cfg := &FrameTreeConfig{Frames: []FrameConfig{{Name: "a", X: math.NaN()}}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for NaN frame transform")
	}

	cfg = &FrameTreeConfig{
		Frames: []FrameConfig{{Name: "a"}},
		Points: []PointConfig{{Frame: "a", Rotation: math.Inf(1)}},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for infinite point rotation")
	}
}

func TestValidate_NoFramesSentinel(t *testing.T) {
	err := EmptyFrameTreeConfig().Validate()
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("Validate() = %v, want ErrNoFrames", err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := EmptyFrameTreeConfig()
	if cfg.GetName() != "frames" {
		t.Errorf("GetName() = %q, want frames", cfg.GetName())
	}
	if cfg.GetLengthUnit() != "m" {
		t.Errorf("GetLengthUnit() = %q, want m", cfg.GetLengthUnit())
	}
	cfg.Name = ptrString("")
	if cfg.GetName() != "frames" {
		t.Errorf("GetName() with empty name = %q, want frames", cfg.GetName())
	}
}

func TestBuild(t *testing.T) {
	cfg := &FrameTreeConfig{
		Frames: []FrameConfig{
			{Name: "world"},
			{Name: "arm", Parent: "world", X: 1, Y: 0, Rotation: math.Pi / 2},
			{Name: "tool", Parent: "arm", X: 2, Y: 0},
		},
		Points: []PointConfig{{Frame: "tool", X: 0, Y: 0}},
	}

	h, reg, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	arm, _ := h.Lookup("arm")
	if got := reg.Get(arm); !got.ApproxEqual(frames.NewTransform(1, 0, math.Pi/2), 1e-12) {
		t.Errorf("arm transform = %s", got)
	}

	pts, err := cfg.ResolvePoints(h)
	if err != nil {
		t.Fatalf("ResolvePoints() error = %v", err)
	}
	world, _ := h.Lookup("world")
	got := pts[0].Point.InFrame(reg, world)
	if !got.Data.ApproxEqual(frames.NewTransform(1, 2, math.Pi/2), 1e-9) {
		t.Errorf("tool origin in world = %s, want (1, 2, pi/2)", got.Data)
	}
}

func TestResolvePoints_UnknownFrame(t *testing.T) {
	cfg := &FrameTreeConfig{Frames: []FrameConfig{{Name: "a"}}}
	h, _, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	cfg.Points = []PointConfig{{Frame: "missing"}}
	if _, err := cfg.ResolvePoints(h); err == nil {
		t.Error("expected error for unknown frame")
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetName() != "field2018" {
		t.Errorf("GetName() = %q, want field2018", cfg.GetName())
	}

	h, reg, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	field, ok := h.Lookup("field")
	if !ok {
		t.Fatal("field frame missing")
	}
	est, ok := h.Lookup("scale_est")
	if !ok {
		t.Fatal("scale_est frame missing")
	}

	got := frames.NewPoint(est, 0, 0, 0).InFrame(reg, field)
	if !got.Data.ApproxEqual(frames.NewTransform(7.7, -0.1, 0), 1e-9) {
		t.Errorf("scale_est origin in field = %s, want (7.7, -0.1, 0)", got.Data)
	}
}
