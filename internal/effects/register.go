// Effect stage kinds and their parameter descriptions
package effects

import (
	"fmt"
	"math/rand"

	"github.com/pion/randutil"
	"github.com/sirupsen/logrus"

	"video-effects-chain/internal/core"
)

// Kind names used in pipeline configuration
const (
	KindColorShift   = "color_shift"
	KindTranslate    = "translate"
	KindShapeOverlay = "shape_overlay"
	KindMirror       = "mirror"
)

// RandSource is the random number generator used by Translate.
// Both *math/rand.Rand and randutil.MathRandomGenerator satisfy it.
type RandSource interface {
	Intn(n int) int
}

// NewRandSource returns a deterministic generator for a non-zero seed and
// a crypto-seeded one otherwise.
func NewRandSource(seed int64) RandSource {
	if seed != 0 {
		return rand.New(rand.NewSource(seed))
	}
	return randutil.NewMathRandomGenerator()
}

// Register adds the effect kinds to registry.
func Register(registry *core.Registry, rng RandSource, logger logrus.FieldLogger) error {
	defaults := DefaultShapeParams()

	kinds := []core.Kind{
		{
			Name:        KindColorShift,
			Description: "Saturating add of a constant to one channel of every pixel",
			Parameters: []core.ParameterInfo{
				{Name: "channel", Type: "int", Min: 0, Max: 3, Default: 2, Description: "Channel index (BGR order, 2 is red)"},
				{Name: "offset", Type: "int", Min: 0, Max: 255, Default: 100, Description: "Value added to the channel"},
			},
			New: func(name string, params core.Params, outputs []core.Stage) (core.Stage, error) {
				channel, err := params.Int("channel", 2)
				if err != nil {
					return nil, err
				}
				offset, err := params.Int("offset", 100)
				if err != nil {
					return nil, err
				}
				return NewColorShift(name, channel, uint8(offset), logger, outputs...), nil
			},
		},
		{
			Name:        KindTranslate,
			Description: "Random shift by up to max_shift pixels per axis, redrawn every frame",
			Parameters: []core.ParameterInfo{
				{Name: "max_shift", Type: "int", Min: 0, Max: maxDimension, Default: 10, Description: "Largest shift in pixels"},
			},
			New: func(name string, params core.Params, outputs []core.Stage) (core.Stage, error) {
				maxShift, err := params.Int("max_shift", 10)
				if err != nil {
					return nil, err
				}
				if rng == nil {
					return nil, fmt.Errorf("no random source configured")
				}
				return NewTranslate(name, maxShift, rng, logger, outputs...), nil
			},
		},
		{
			Name:        KindShapeOverlay,
			Description: "Solid heart drawn at the frame center",
			Parameters: []core.ParameterInfo{
				{Name: "radius", Type: "int", Min: 1, Max: maxDimension, Default: defaults.Radius, Description: "Lobe radius in pixels"},
				{Name: "padding", Type: "int", Min: 0, Max: maxDimension, Default: defaults.Padding, Description: "Extra triangle width on each side"},
				{Name: "drop", Type: "int", Min: 0, Max: maxDimension, Default: defaults.Drop, Description: "Triangle offset below the lobes"},
				{Name: "color", Type: "color", Default: "#ff0000", Description: "Fill color as #rrggbb"},
			},
			New: func(name string, params core.Params, outputs []core.Stage) (core.Stage, error) {
				shape := DefaultShapeParams()
				var err error
				if shape.Radius, err = params.Int("radius", shape.Radius); err != nil {
					return nil, err
				}
				if shape.Padding, err = params.Int("padding", shape.Padding); err != nil {
					return nil, err
				}
				if shape.Drop, err = params.Int("drop", shape.Drop); err != nil {
					return nil, err
				}
				if shape.Color, err = params.Color("color", shape.Color); err != nil {
					return nil, err
				}
				return NewShapeOverlay(name, shape, logger, outputs...), nil
			},
		},
		{
			Name:        KindMirror,
			Description: "Horizontal flip",
			New: func(name string, _ core.Params, outputs []core.Stage) (core.Stage, error) {
				return NewMirror(name, outputs...), nil
			},
		},
	}

	for _, kind := range kinds {
		if err := registry.Register(kind); err != nil {
			return err
		}
	}
	return nil
}

// maxDimension mirrors the largest accepted frame side
const maxDimension = 16384
