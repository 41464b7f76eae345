package effects

import (
	"gocv.io/x/gocv"

	"video-effects-chain/internal/core"
)

// horizontalFlip is OpenCV's flip code for mirroring around the vertical axis
const horizontalFlip = 1

// Mirror flips frames horizontally.
type Mirror struct {
	core.Named
	core.Fanout
	mirrored bool
}

var _ core.Stage = (*Mirror)(nil)

func NewMirror(name string, outputs ...core.Stage) *Mirror {
	return &Mirror{
		Named:  core.Named(name),
		Fanout: core.NewFanout(outputs...),
	}
}

// Mirrored reports whether at least one frame has been flipped.
func (m *Mirror) Mirrored() bool {
	return m.mirrored
}

func (m *Mirror) Process(frame *core.Frame) {
	flipped := gocv.NewMat()
	gocv.Flip(frame.Mat(), &flipped, horizontalFlip)
	m.mirrored = true
	m.Emit(frame.Derive(flipped))
}
