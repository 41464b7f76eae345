package effects

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-effects-chain/internal/core"
)

func TestTranslateBounds(t *testing.T) {
	stage := NewTranslate("shake", 10, fixedRand{}, quietLogger())

	mx, my := stage.Bounds(640, 480)
	assert.Equal(t, 10, mx)
	assert.Equal(t, 10, my)

	mx, my = stage.Bounds(3, 1)
	assert.Equal(t, 2, mx)
	assert.Equal(t, 0, my)

	mx, my = NewTranslate("neg", -5, fixedRand{}, quietLogger()).Bounds(100, 100)
	assert.Zero(t, mx)
	assert.Zero(t, my)
}

func TestTranslateShiftsPixels(t *testing.T) {
	out := newCapture()
	defer out.release()
	stage := NewTranslate("shake", 1, fixedRand{}, quietLogger(), out)

	frame := frameOf(t, 4, 4, func(x, y int) [3]byte {
		if x == 0 && y == 0 {
			return [3]byte{255, 255, 255}
		}
		return [3]byte{}
	})
	defer frame.Close()
	stage.Process(frame)

	assert.Equal(t, image.Pt(1, 1), stage.LastOffset())
	require.Len(t, out.frames, 1)
	got := out.frames[0]
	assert.True(t, frame.SameShape(got))
	assert.Equal(t, []uint8{255, 255, 255}, got.Pixel(1, 1))
	assert.Equal(t, []uint8{0, 0, 0}, got.Pixel(0, 0))
	assert.Equal(t, []uint8{255, 255, 255}, frame.Pixel(0, 0), "input modified")
}

func TestTranslateOffsetsStayInBoundsAndVary(t *testing.T) {
	stage := NewTranslate("shake", 10, NewRandSource(42), quietLogger(), &probe{fn: func(*core.Frame) {}})

	frame := frameOf(t, 32, 24, solid(1, 2, 3))
	defer frame.Close()

	seen := map[image.Point]bool{}
	for i := 0; i < 1000; i++ {
		stage.Process(frame)
		off := stage.LastOffset()
		assert.GreaterOrEqual(t, off.X, -10)
		assert.LessOrEqual(t, off.X, 10)
		assert.GreaterOrEqual(t, off.Y, -10)
		assert.LessOrEqual(t, off.Y, 10)
		seen[off] = true
	}
	assert.Greater(t, len(seen), 1, "offset never changed")
}

func TestTranslateSeededIsDeterministic(t *testing.T) {
	offsets := func() []image.Point {
		stage := NewTranslate("shake", 10, NewRandSource(7), quietLogger())
		frame := frameOf(t, 16, 16, solid(0, 0, 0))
		defer frame.Close()

		var result []image.Point
		for i := 0; i < 10; i++ {
			stage.Process(frame)
			result = append(result, stage.LastOffset())
		}
		return result
	}
	assert.Equal(t, offsets(), offsets())
}
