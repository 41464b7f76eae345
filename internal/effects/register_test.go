package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-effects-chain/internal/core"
)

func TestRegisterBuildsEffects(t *testing.T) {
	registry := core.NewRegistry()
	require.NoError(t, Register(registry, NewRandSource(1), quietLogger()))

	pipeline, err := core.Build(core.PipelineConfig{
		Stages: []core.StageConfig{
			{Name: "heart", Kind: KindShapeOverlay, Params: map[string]any{"radius": 10, "color": []any{0, 255, 0}}, Outputs: []string{"tint"}},
			{Name: "tint", Kind: KindColorShift, Params: map[string]any{"channel": 0, "offset": 50}, Outputs: []string{"shake"}},
			{Name: "shake", Kind: KindTranslate, Params: map[string]any{"max_shift": 3}, Outputs: []string{"mirror"}},
			{Name: "mirror", Kind: KindMirror},
		},
	}, registry)
	require.NoError(t, err)

	stage, ok := pipeline.Stage("heart")
	require.True(t, ok)
	heart := stage.(*ShapeOverlay)
	assert.Equal(t, 10, heart.Params().Radius)
	assert.Equal(t, uint8(255), heart.Params().Color.G)

	frame := frameOf(t, 64, 48, solid(0, 0, 0))
	defer frame.Close()
	pipeline.Entry().Process(frame)

	mirror, _ := pipeline.Stage("mirror")
	assert.True(t, mirror.(*Mirror).Mirrored())
}

func TestRegisterRejectsBadParams(t *testing.T) {
	registry := core.NewRegistry()
	require.NoError(t, Register(registry, NewRandSource(1), quietLogger()))

	for _, params := range []map[string]any{
		{"channel": 4},
		{"offset": 256},
		{"offset": -1},
		{"gain": 2},
	} {
		_, err := registry.New(KindColorShift, "tint", params, nil)
		assert.ErrorIs(t, err, core.ErrInvalidPipeline, "%v", params)
	}

	_, err := registry.New(KindShapeOverlay, "heart", core.Params{"color": "red"}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidPipeline)
}
