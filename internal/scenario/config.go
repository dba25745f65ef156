package scenario

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Vertex is one vertex of the scenario mesh.
type Vertex struct {
	Position [3]float32 `toml:"position"`
	UV       [2]float32 `toml:"uv"`
}

// Config holds the tunable parameters of the scenario and the demo.
type Config struct {
	// Backend is the device to run on. Empty selects rhi.DefaultDevice.
	Backend string `toml:"backend"`

	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`

	// Frames is the number of frames the demo submits.
	Frames int `toml:"frames"`
	// Workers is the number of goroutines recording command buffers.
	Workers int `toml:"workers"`

	ClearColor [4]float32 `toml:"clear_color"`
	Vertices   []Vertex   `toml:"vertices"`

	// UniformsName and TextureName are the fallback names of the constant
	// buffer and texture ranges.
	UniformsName string `toml:"uniforms_name"`
	TextureName  string `toml:"texture_name"`

	// Validation enables root signature validation in release builds.
	Validation bool `toml:"validation"`
	// Debug enables debug logging.
	Debug bool `toml:"debug"`
}

// Config errors.
var (
	// ErrInvalidConfig is returned when a decoded configuration is unusable.
	ErrInvalidConfig = errors.New("scenario: invalid config")
)

// DefaultConfig returns the configuration of the textured triangle.
func DefaultConfig() Config {
	return Config{
		Width:      640,
		Height:     480,
		Frames:     3,
		Workers:    2,
		ClearColor: [4]float32{0.1, 0.1, 0.12, 1},
		Vertices: []Vertex{
			{Position: [3]float32{0, 0.5, 0}, UV: [2]float32{0.5, 0}},
			{Position: [3]float32{-0.5, -0.5, 0}, UV: [2]float32{0, 1}},
			{Position: [3]float32{0.5, -0.5, 0}, UV: [2]float32{1, 1}},
		},
		UniformsName: "Uniforms",
		TextureName:  "DiffuseMap",
	}
}

// LoadConfig reads a TOML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("scenario: open config: %w", err)
	}
	defer f.Close()
	return ReadConfig(bufio.NewReader(f))
}

// ReadConfig decodes a TOML configuration over the defaults. Unknown keys
// are an error.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	cfg.Vertices = nil
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("scenario: decode config: %w", err)
	}
	if cfg.Vertices == nil {
		cfg.Vertices = DefaultConfig().Vertices
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every unusable field.
func (c *Config) Validate() error {
	var errs []error
	if c.Width == 0 || c.Height == 0 {
		errs = append(errs, fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("%w: frames %d", ErrInvalidConfig, c.Frames))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers))
	}
	if len(c.Vertices) == 0 || len(c.Vertices)%3 != 0 {
		errs = append(errs, fmt.Errorf("%w: %d vertices is not a triangle list", ErrInvalidConfig, len(c.Vertices)))
	}
	if c.TextureName == "" {
		errs = append(errs, fmt.Errorf("%w: empty texture name", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// Marshal encodes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
