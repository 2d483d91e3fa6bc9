// SPDX-License-Identifier: MIT

// Package config loads the YAML run file of the paoflow-optics command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kylincaster/PAOFLOW/berry"
	"github.com/kylincaster/PAOFLOW/epsilon"
	"github.com/kylincaster/PAOFLOW/model"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvWorkers = "PAOFLOW_WORKERS"
	EnvOutDir  = "PAOFLOW_OUT"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid run configuration")

// ModelConfig selects a preset by name or describes a model inline.
type ModelConfig struct {
	Preset string       `yaml:"preset,omitempty"`
	Inline *model.Model `yaml:"inline,omitempty"`
}

// LineConfig is a straight k-path.
type LineConfig struct {
	From [3]float64 `yaml:"from"`
	To   [3]float64 `yaml:"to"`
	N    int        `yaml:"n"`
}

// KPointsConfig picks exactly one of a mesh or a line.
type KPointsConfig struct {
	Mesh []int       `yaml:"mesh,omitempty"`
	Line *LineConfig `yaml:"line,omitempty"`
}

// EpsilonConfig configures the dielectric stage.
type EpsilonConfig struct {
	Skip   bool         `yaml:"skip,omitempty"`
	Grid   epsilon.Grid `yaml:"grid"`
	Delta  float64      `yaml:"delta"`
	Spin   int          `yaml:"spin"`
	Volume float64      `yaml:"volume"`

	// Temperature is k_B·T in eV; nil selects the default, 0 step occupations.
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// BerryConfig configures the curvature stage.
type BerryConfig struct {
	Skip   bool    `yaml:"skip,omitempty"`
	DeltaB float64 `yaml:"delta_b"`
	Spin   int     `yaml:"spin"`
}

// Report compressions accepted in OutputConfig.Compression.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

// OutputConfig controls where reports go and how they are encoded.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Compression string `yaml:"compression"`
	Level       int    `yaml:"level"`
}

// RunConfig is the root of the run file.
type RunConfig struct {
	Workers int           `yaml:"workers"`
	Fermi   float64       `yaml:"fermi"`
	Model   ModelConfig   `yaml:"model"`
	KPoints KPointsConfig `yaml:"kpoints"`
	Epsilon EpsilonConfig `yaml:"epsilon"`
	Berry   BerryConfig   `yaml:"berry"`
	Output  OutputConfig  `yaml:"output"`
}

// Load reads a run file. A missing file yields the defaults.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&cfg)

	return &cfg, nil
}

// Save writes cfg to path, creating directories as needed.
func Save(path string, cfg *RunConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in run: the two-band preset on an 8×8×8 mesh.
func Default() *RunConfig {
	return &RunConfig{
		Workers: 4,
		Model:   ModelConfig{Preset: "two-band"},
		KPoints: KPointsConfig{Mesh: []int{8, 8, 8}},
		Epsilon: EpsilonConfig{
			Grid:        epsilon.DefaultGrid(),
			Delta:       epsilon.DefaultDelta,
			Volume:      epsilon.DefaultVolume,
			Temperature: ptr(epsilon.DefaultTemperature),
		},
		Berry:  BerryConfig{DeltaB: berry.DefaultDeltaB},
		Output: OutputConfig{Dir: "out", Compression: CompressionNone, Level: 3},
	}
}

// applyDefaults fills zero values a partial file leaves behind.
func applyDefaults(cfg *RunConfig) {
	def := Default()
	if cfg.Workers == 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Model.Preset == "" && cfg.Model.Inline == nil {
		cfg.Model = def.Model
	}
	if len(cfg.KPoints.Mesh) == 0 && cfg.KPoints.Line == nil {
		cfg.KPoints = def.KPoints
	}
	if cfg.Epsilon.Grid == (epsilon.Grid{}) {
		cfg.Epsilon.Grid = def.Epsilon.Grid
	}
	if cfg.Epsilon.Delta == 0 {
		cfg.Epsilon.Delta = def.Epsilon.Delta
	}
	if cfg.Epsilon.Volume == 0 {
		cfg.Epsilon.Volume = def.Epsilon.Volume
	}
	if cfg.Epsilon.Temperature == nil {
		cfg.Epsilon.Temperature = def.Epsilon.Temperature
	}
	if cfg.Berry.DeltaB == 0 {
		cfg.Berry.DeltaB = def.Berry.DeltaB
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = def.Output.Dir
	}
	if cfg.Output.Compression == "" {
		cfg.Output.Compression = def.Output.Compression
	}
	if cfg.Output.Level == 0 {
		cfg.Output.Level = def.Output.Level
	}
}

// ApplyEnv overrides workers and the output directory from the environment.
func ApplyEnv(cfg *RunConfig, getenv func(string) string) error {
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvWorkers, v, err)
		}
		cfg.Workers = n
	}
	if v := getenv(EnvOutDir); v != "" {
		cfg.Output.Dir = v
	}

	return nil
}

// Validate rejects values the engines would panic or fail on.
func (c *RunConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers %d: %w", c.Workers, ErrInvalid)
	}
	if (c.Model.Preset == "") == (c.Model.Inline == nil) {
		return fmt.Errorf("model: set exactly one of preset or inline: %w", ErrInvalid)
	}
	if c.Model.Preset != "" {
		if _, ok := model.ByName(c.Model.Preset); !ok {
			return fmt.Errorf("model preset %q unknown: %w", c.Model.Preset, ErrInvalid)
		}
	}
	if c.Model.Inline != nil {
		if err := c.Model.Inline.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if (len(c.KPoints.Mesh) == 0) == (c.KPoints.Line == nil) {
		return fmt.Errorf("kpoints: set exactly one of mesh or line: %w", ErrInvalid)
	}
	if len(c.KPoints.Mesh) != 0 && len(c.KPoints.Mesh) != 3 {
		return fmt.Errorf("kpoints mesh needs 3 extents, got %v: %w", c.KPoints.Mesh, ErrInvalid)
	}
	if !c.Epsilon.Skip {
		if err := c.Epsilon.Grid.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		if c.Epsilon.Temperature == nil || *c.Epsilon.Temperature < 0 {
			return fmt.Errorf("epsilon: temperature must be set and >= 0: %w", ErrInvalid)
		}
		if c.Epsilon.Delta <= 0 || c.Epsilon.Spin < 0 || c.Epsilon.Volume <= 0 {
			return fmt.Errorf("epsilon: delta>0, spin>=0, volume>0 required: %w", ErrInvalid)
		}
	}
	if !c.Berry.Skip && (c.Berry.DeltaB <= 0 || c.Berry.Spin < 0) {
		return fmt.Errorf("berry: delta_b>0, spin>=0 required: %w", ErrInvalid)
	}
	switch c.Output.Compression {
	case CompressionNone, CompressionZstd, CompressionLZ4:
	default:
		return fmt.Errorf("output compression %q: %w", c.Output.Compression, ErrInvalid)
	}
	if c.Output.Level < 1 || c.Output.Level > 22 {
		return fmt.Errorf("output level %d outside 1..22: %w", c.Output.Level, ErrInvalid)
	}

	return nil
}

// BuildModel resolves the configured model.
func (c *RunConfig) BuildModel() (*model.Model, error) {
	if c.Model.Inline != nil {
		return c.Model.Inline, nil
	}
	m, ok := model.ByName(c.Model.Preset)
	if !ok {
		return nil, fmt.Errorf("model preset %q unknown: %w", c.Model.Preset, ErrInvalid)
	}

	return m, nil
}

// Points generates the configured k-points.
func (c *RunConfig) Points() ([][3]float64, error) {
	if l := c.KPoints.Line; l != nil {
		return model.Line(l.From, l.To, l.N)
	}
	if len(c.KPoints.Mesh) != 3 {
		return nil, fmt.Errorf("kpoints mesh %v: %w", c.KPoints.Mesh, ErrInvalid)
	}

	return model.Mesh(c.KPoints.Mesh[0], c.KPoints.Mesh[1], c.KPoints.Mesh[2])
}

// EpsilonOptions translates the dielectric section. Call Validate first.
func (c *RunConfig) EpsilonOptions() []epsilon.Option {
	e := c.Epsilon
	return []epsilon.Option{
		epsilon.WithGrid(e.Grid.Emin, e.Grid.Emax, e.Grid.Samples),
		epsilon.WithDelta(e.Delta),
		epsilon.WithTemperature(*e.Temperature),
		epsilon.WithSpin(e.Spin),
		epsilon.WithVolume(e.Volume),
	}
}

// BerryOptions translates the curvature section. Call Validate first.
func (c *RunConfig) BerryOptions() []berry.Option {
	return []berry.Option{berry.WithDeltaB(c.Berry.DeltaB), berry.WithSpin(c.Berry.Spin)}
}

func ptr[T any](v T) *T { return &v }
