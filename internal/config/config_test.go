package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-effects-chain/internal/capture"
	"video-effects-chain/internal/core"
	"video-effects-chain/internal/display"
	"video-effects-chain/internal/effects"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, capture.KindDevice, cfg.Source.Kind)
	assert.Equal(t, display.BackendHighGUI, cfg.Display.Backend)
	assert.Equal(t, "original", cfg.Pipeline.Entry)
	require.Len(t, cfg.Pipeline.Stages, 6)
	assert.Equal(t, display.KindDisplay, cfg.Pipeline.Stages[5].Kind)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "chain.toml", `
seed = 42

[source]
kind = "pattern"
width = 320
height = 240
frames = 10

[display]
backend = "none"

[pipeline]
entry = "tint"

[[pipeline.stages]]
name = "tint"
kind = "color_shift"
outputs = ["out"]
[pipeline.stages.params]
channel = 0
offset = 30

[[pipeline.stages]]
name = "out"
kind = "display"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, capture.KindPattern, cfg.Source.Kind)
	assert.Equal(t, 320, cfg.Source.Width)
	assert.Equal(t, uint64(10), cfg.Source.Frames)
	assert.Equal(t, display.BackendNone, cfg.Display.Backend)
	assert.Equal(t, uint64(300), cfg.StatsInterval, "default kept")
	require.Len(t, cfg.Pipeline.Stages, 2)
	assert.Equal(t, int64(30), cfg.Pipeline.Stages[0].Params["offset"])
	assert.Equal(t, []string{"out"}, cfg.Pipeline.Stages[0].Outputs)
}

func TestLoadYAMLKeepsDefaultPipeline(t *testing.T) {
	path := writeFile(t, "run.yaml", `
source:
  kind: file
  path: clip.mp4
log:
  debug: true
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, capture.KindFile, cfg.Source.Kind)
	assert.Equal(t, "clip.mp4", cfg.Source.Path)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, DefaultPipeline(), cfg.Pipeline)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "chain.json", `{}`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.toml", `source = [`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "unknown source", modify: func(c *Config) { c.Source.Kind = "webrtc" }},
		{name: "file without path", modify: func(c *Config) { c.Source.Kind = capture.KindFile }},
		{name: "unknown display", modify: func(c *Config) { c.Display.Backend = "sdl" }},
		{name: "unknown log format", modify: func(c *Config) { c.Log.Format = "xml" }},
		{name: "negative width", modify: func(c *Config) { c.Source.Width = -1 }},
		{name: "no stages", modify: func(c *Config) { c.Pipeline.Stages = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "chain.yaml", `
source:
  kind: pattern
  width: 320
display:
  backend: none
`)

	flags := NewFlags("test")
	require.NoError(t, flags.Parse([]string{"--config", path, "--width", "160", "--frames", "3", "--seed", "9", "--debug"}))

	cfg, err := flags.Load()
	require.NoError(t, err)
	assert.Equal(t, capture.KindPattern, cfg.Source.Kind, "unset flag must not override")
	assert.Equal(t, 160, cfg.Source.Width)
	assert.Equal(t, uint64(3), cfg.Source.Frames)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.True(t, cfg.Log.Debug)
	assert.False(t, flags.ListStages())

	opts := cfg.CaptureOptions()
	assert.Equal(t, 160, opts.Width)
	assert.Equal(t, uint64(3), opts.Limit)
}

func TestFlagsRejectInvalidResult(t *testing.T) {
	flags := NewFlags("test")
	require.NoError(t, flags.Parse([]string{"--source", "images"}))
	_, err := flags.Load()
	assert.Error(t, err)
}

func TestDefaultPipelineRunsHeadless(t *testing.T) {
	logger, _ := test.NewNullLogger()
	surface := display.NewHeadless()

	registry := core.NewRegistry()
	require.NoError(t, effects.Register(registry, effects.NewRandSource(1), logger))
	require.NoError(t, display.Register(registry, surface))

	pipeline, err := core.Build(DefaultPipeline(), registry)
	require.NoError(t, err)

	source := capture.NewPattern(capture.Options{Width: 160, Height: 120, Limit: 4}, logger)
	driver := core.NewDriver(source, pipeline, core.WithClosers(surface), core.WithLogger(logger))
	require.NoError(t, driver.Run(context.Background()))

	assert.Equal(t, 4, surface.Shown("Original Video"))
	assert.Equal(t, 4, surface.Shown("Processed Video"))
	assert.Equal(t, 4, surface.Polls())
	assert.True(t, surface.WindowClosed("Processed Video"))
	assert.True(t, surface.Closed())
	assert.Equal(t, uint64(4), driver.Stats().Frames())
}

func TestBundledConfigsBuild(t *testing.T) {
	logger, _ := test.NewNullLogger()

	for _, name := range []string{"default.toml", "pattern.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(filepath.Join("..", "..", "configs", name))
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			registry := core.NewRegistry()
			require.NoError(t, effects.Register(registry, effects.NewRandSource(cfg.Seed), logger))
			require.NoError(t, display.Register(registry, display.NewHeadless()))

			pipeline, err := core.Build(cfg.Pipeline, registry)
			require.NoError(t, err)
			assert.Len(t, pipeline.Stages(), len(cfg.Pipeline.Stages))
		})
	}
}
