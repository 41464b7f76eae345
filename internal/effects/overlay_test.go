package effects

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = []uint8{0, 0, 255}

func TestShapeGeometryClampsRadius(t *testing.T) {
	params := DefaultShapeParams()

	tests := []struct {
		name          string
		width, height int
		want          int
	}{
		{name: "fits", width: 640, height: 480, want: 40},
		{name: "short frame", width: 200, height: 100, want: 24},
		{name: "narrow frame", width: 60, height: 480, want: 14},
		{name: "too small", width: 4, height: 4, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, params.EffectiveRadius(tt.width, tt.height))
			_, ok := params.Geometry(tt.width, tt.height)
			assert.Equal(t, tt.want > 0, ok)
		})
	}
}

func TestShapeGeometryLayout(t *testing.T) {
	geom, ok := DefaultShapeParams().Geometry(200, 100)
	require.True(t, ok)

	assert.Equal(t, image.Pt(100, 50), geom.Center)
	assert.Equal(t, Circle{Center: image.Pt(76, 26), Radius: 24}, geom.Lobes[0])
	assert.Equal(t, Circle{Center: image.Pt(124, 26), Radius: 24}, geom.Lobes[1])
	assert.Equal(t, [3]image.Point{{50, 28}, {150, 28}, {100, 100}}, geom.Triangle)

	bounds := geom.Bounds()
	assert.Equal(t, 50, bounds.Min.X)
	assert.Equal(t, 150, bounds.Max.X)
	assert.Equal(t, 2, bounds.Min.Y)
	assert.Equal(t, 200-bounds.Max.X, bounds.Min.X, "shape not centered")
}

func TestShapeOverlayDrawsCenteredHeart(t *testing.T) {
	out := newCapture()
	defer out.release()
	stage := NewShapeOverlay("heart", DefaultShapeParams(), quietLogger(), out)

	frame := frameOf(t, 200, 100, solid(0, 0, 0))
	defer frame.Close()
	stage.Process(frame)

	require.Len(t, out.frames, 1)
	got := out.frames[0]

	assert.Equal(t, red, got.Pixel(100, 50), "center")
	assert.Equal(t, red, got.Pixel(76, 26), "left lobe")
	assert.Equal(t, red, got.Pixel(124, 26), "right lobe")
	assert.Equal(t, []uint8{0, 0, 0}, got.Pixel(5, 5), "corner")
	assert.Equal(t, []uint8{0, 0, 0}, frame.Pixel(100, 50), "input modified")

	left, right := got.Width(), -1
	for y := 0; y < got.Height(); y++ {
		for x := 0; x < got.Width(); x++ {
			if assert.ObjectsAreEqual(red, got.Pixel(x, y)) {
				left = min(left, x)
				right = max(right, x)
			}
		}
	}
	assert.InDelta(t, 50, left, 1)
	assert.InDelta(t, 150, right, 1)
	assert.InDelta(t, 100-left, right-100, 1, "asymmetric heart")
}

func TestShapeOverlayTooSmallForwardsCopy(t *testing.T) {
	out := newCapture()
	defer out.release()
	stage := NewShapeOverlay("heart", DefaultShapeParams(), quietLogger(), out)

	frame := frameOf(t, 4, 4, gradient)
	defer frame.Close()
	stage.Process(frame)

	require.Len(t, out.frames, 1)
	assert.Equal(t, frame.Bytes(), out.frames[0].Bytes())
}

func TestShapeOverlayColor(t *testing.T) {
	out := newCapture()
	defer out.release()
	params := DefaultShapeParams()
	params.Color = color.RGBA{G: 255, A: 255}
	frame := frameOf(t, 320, 240, solid(0, 0, 0))
	defer frame.Close()
	NewShapeOverlay("heart", params, quietLogger(), out).Process(frame)

	require.Len(t, out.frames, 1)
	assert.Equal(t, []uint8{0, 255, 0}, out.frames[0].Pixel(160, 120))
}

func TestFanOutBranchesDoNotShareBuffers(t *testing.T) {
	overlaid, plain := newCapture(), newCapture()
	defer overlaid.release()
	defer plain.release()

	heart := NewShapeOverlay("heart", DefaultShapeParams(), quietLogger(), overlaid)
	tint := NewColorShift("tint", 0, 40, quietLogger(), heart, plain)

	frame := frameOf(t, 200, 100, solid(0, 0, 0))
	defer frame.Close()
	tint.Process(frame)

	require.Len(t, overlaid.frames, 1)
	require.Len(t, plain.frames, 1)
	assert.Equal(t, red, overlaid.frames[0].Pixel(100, 50))
	assert.Equal(t, []uint8{40, 0, 0}, plain.frames[0].Pixel(100, 50), "overlay leaked into sibling branch")
}
