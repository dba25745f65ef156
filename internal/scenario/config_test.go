package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const exampleConfig = `
backend = "Null"
width = 320
height = 200
frames = 5
workers = 4
clear_color = [0.0, 0.0, 1.0, 1.0]
texture_name = "Albedo"

[[vertices]]
position = [0.0, 1.0, 0.0]
uv = [0.5, 0.0]

[[vertices]]
position = [-1.0, -1.0, 0.0]
uv = [0.0, 1.0]

[[vertices]]
position = [1.0, -1.0, 0.0]
uv = [1.0, 1.0]
`

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(exampleConfig))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	if cfg.Backend != "Null" || cfg.Width != 320 || cfg.Height != 200 {
		t.Errorf("ReadConfig() = %s %dx%d, want Null 320x200", cfg.Backend, cfg.Width, cfg.Height)
	}
	if cfg.Frames != 5 || cfg.Workers != 4 {
		t.Errorf("frames, workers = %d, %d, want 5, 4", cfg.Frames, cfg.Workers)
	}
	if cfg.ClearColor != [4]float32{0, 0, 1, 1} {
		t.Errorf("ClearColor = %v", cfg.ClearColor)
	}
	if len(cfg.Vertices) != 3 || cfg.Vertices[0].Position != [3]float32{0, 1, 0} {
		t.Errorf("Vertices = %v", cfg.Vertices)
	}
	if cfg.TextureName != "Albedo" {
		t.Errorf("TextureName = %q, want Albedo", cfg.TextureName)
	}
	// Unset keys keep their defaults.
	if cfg.UniformsName != "Uniforms" {
		t.Errorf("UniformsName = %q, want Uniforms", cfg.UniformsName)
	}
}

func TestReadConfigDefaults(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	want := DefaultConfig()
	if cfg.Width != want.Width || cfg.Frames != want.Frames || len(cfg.Vertices) != len(want.Vertices) {
		t.Errorf("ReadConfig(\"\") = %+v, want defaults", cfg)
	}
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		invalid bool
	}{
		{"unknown key", "colour = 1", false},
		{"bad syntax", "width = ", false},
		{"zero width", "width = 0", true},
		{"no workers", "workers = 0", true},
		{"partial triangle", "[[vertices]]\nposition = [0.0, 0.0, 0.0]\n", true},
		{"empty texture name", `texture_name = ""`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadConfig(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadConfig() error = nil, want error")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = %v, want %v (err %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	cfg.Workers = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if n := strings.Count(err.Error(), ErrInvalidConfig.Error()); n != 2 {
		t.Errorf("Validate() reported %d problems, want 2: %v", n, err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	cfg := DefaultConfig()
	cfg.Frames = 7
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got.Frames != 7 || len(got.Vertices) != 3 {
		t.Errorf("LoadConfig() frames = %d, vertices = %d, want 7, 3", got.Frames, len(got.Vertices))
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadConfig(missing) error = nil, want error")
	}
}
