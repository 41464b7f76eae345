// Package config loads run configuration from defaults, an optional file and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"video-effects-chain/internal/capture"
	"video-effects-chain/internal/core"
	"video-effects-chain/internal/display"
	"video-effects-chain/internal/effects"
)

// Config is the complete run configuration
type Config struct {
	Source   SourceConfig        `toml:"source" yaml:"source"`
	Display  DisplayConfig       `toml:"display" yaml:"display"`
	Pipeline core.PipelineConfig `toml:"pipeline" yaml:"pipeline"`
	Log      LogConfig           `toml:"log" yaml:"log"`
	// Seed makes random effects reproducible; 0 picks a random seed.
	Seed int64 `toml:"seed" yaml:"seed"`
	// StatsInterval logs throughput every that many frames at debug level.
	StatsInterval uint64 `toml:"stats_interval" yaml:"stats_interval"`
}

// SourceConfig selects and configures the capture source
type SourceConfig struct {
	Kind     string  `toml:"kind" yaml:"kind"`
	Device   int     `toml:"device" yaml:"device"`
	DeviceID string  `toml:"device_id" yaml:"device_id"`
	Path     string  `toml:"path" yaml:"path"`
	Width    int     `toml:"width" yaml:"width"`
	Height   int     `toml:"height" yaml:"height"`
	FPS      float64 `toml:"fps" yaml:"fps"`
	Frames   uint64  `toml:"frames" yaml:"frames"`
}

// DisplayConfig selects the display backend
type DisplayConfig struct {
	Backend string `toml:"backend" yaml:"backend"`
}

// LogConfig controls logging output
type LogConfig struct {
	Debug  bool   `toml:"debug" yaml:"debug"`
	Format string `toml:"format" yaml:"format"` // "", "text" or "json"
}

// Default returns the reference setup: camera 0 shown raw, then overlaid,
// tinted, shaken and mirrored into a second window.
func Default() Config {
	return Config{
		Source:        SourceConfig{Kind: capture.KindDevice},
		Display:       DisplayConfig{Backend: display.BackendHighGUI},
		Pipeline:      DefaultPipeline(),
		StatsInterval: 300,
	}
}

// DefaultPipeline is the reference effect chain.
func DefaultPipeline() core.PipelineConfig {
	return core.PipelineConfig{
		Entry: "original",
		Stages: []core.StageConfig{
			{Name: "original", Kind: display.KindPassthroughDisplay, Params: map[string]any{"window": "Original Video"}, Outputs: []string{"heart"}},
			{Name: "heart", Kind: effects.KindShapeOverlay, Outputs: []string{"tint"}},
			{Name: "tint", Kind: effects.KindColorShift, Params: map[string]any{"channel": 2, "offset": 100}, Outputs: []string{"shake"}},
			{Name: "shake", Kind: effects.KindTranslate, Params: map[string]any{"max_shift": 10}, Outputs: []string{"mirror"}},
			{Name: "mirror", Kind: effects.KindMirror, Outputs: []string{"processed"}},
			{Name: "processed", Kind: display.KindDisplay, Params: map[string]any{"window": "Processed Video"}},
		},
	}
}

// Load reads path over the defaults. A file that declares pipeline stages
// replaces the default pipeline as a whole.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	cfg.Pipeline = core.PipelineConfig{}
	if err := decodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if len(cfg.Pipeline.Stages) == 0 {
		cfg.Pipeline = DefaultPipeline()
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse config %q: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %q: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	return nil
}

// Validate checks the values the pipeline builder does not see.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case capture.KindDevice, capture.KindPattern, capture.KindMediaDevices:
	case capture.KindFile, capture.KindImages:
		if c.Source.Path == "" {
			return fmt.Errorf("source %q needs a path", c.Source.Kind)
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}

	switch c.Display.Backend {
	case display.BackendHighGUI, display.BackendFyne, display.BackendNone:
	default:
		return fmt.Errorf("unknown display backend %q", c.Display.Backend)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if c.Source.Width < 0 || c.Source.Height < 0 || c.Source.FPS < 0 {
		return fmt.Errorf("source size and fps must not be negative")
	}

	if len(c.Pipeline.Stages) == 0 {
		return fmt.Errorf("pipeline has no stages")
	}
	return nil
}

// CaptureOptions converts the source section for capture.Open
func (c Config) CaptureOptions() capture.Options {
	return capture.Options{
		Device:   c.Source.Device,
		DeviceID: c.Source.DeviceID,
		Path:     c.Source.Path,
		Width:    c.Source.Width,
		Height:   c.Source.Height,
		FPS:      c.Source.FPS,
		Limit:    c.Source.Frames,
	}
}
