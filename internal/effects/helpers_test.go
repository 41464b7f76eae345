package effects

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"video-effects-chain/internal/core"
)

// capture records a copy of every frame it receives.
type capture struct {
	core.Named
	frames []*core.Frame
}

func newCapture() *capture {
	return &capture{Named: "capture"}
}

func (c *capture) Process(frame *core.Frame) {
	c.frames = append(c.frames, frame.Clone())
}

func (c *capture) release() {
	for _, frame := range c.frames {
		frame.Close()
	}
}

// probe calls fn for every frame it receives.
type probe struct {
	core.Named
	fn func(*core.Frame)
}

func (p *probe) Process(frame *core.Frame) { p.fn(frame) }

// fixedRand always returns the largest allowed value.
type fixedRand struct{}

func (fixedRand) Intn(n int) int { return n - 1 }

func quietLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

// frameOf builds a BGR frame where pixel(x, y) = fill(x, y).
func frameOf(t *testing.T, width, height int, fill func(x, y int) [3]byte) *core.Frame {
	t.Helper()
	pix := make([]byte, 0, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := fill(x, y)
			pix = append(pix, px[0], px[1], px[2])
		}
	}
	frame, err := core.NewFrameFromBytes(width, height, 3, pix)
	require.NoError(t, err)
	return frame
}

func solid(b, g, r byte) func(x, y int) [3]byte {
	return func(int, int) [3]byte { return [3]byte{b, g, r} }
}
