package effects

import (
	"image"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"video-effects-chain/internal/core"
)

// Translate shifts the frame by a random offset drawn independently on
// every call. Uncovered pixels are black.
type Translate struct {
	core.Named
	core.Fanout
	maxShift int
	rng      RandSource
	logger   logrus.FieldLogger
	last     image.Point
}

var _ core.Stage = (*Translate)(nil)

func NewTranslate(name string, maxShift int, rng RandSource, logger logrus.FieldLogger, outputs ...core.Stage) *Translate {
	if maxShift < 0 {
		maxShift = 0
	}
	return &Translate{
		Named:    core.Named(name),
		Fanout:   core.NewFanout(outputs...),
		maxShift: maxShift,
		rng:      rng,
		logger:   logger,
	}
}

// LastOffset returns the offset applied to the most recent frame.
func (t *Translate) LastOffset() image.Point {
	return t.last
}

// Bounds returns the per-axis shift limits for a frame of the given size.
func (t *Translate) Bounds(width, height int) (int, int) {
	return min(t.maxShift, max(width-1, 0)), min(t.maxShift, max(height-1, 0))
}

func (t *Translate) Process(frame *core.Frame) {
	mx, my := t.Bounds(frame.Width(), frame.Height())
	dx := t.draw(mx)
	dy := t.draw(my)
	t.last = image.Pt(dx, dy)

	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer m.Close()
	m.SetDoubleAt(0, 0, 1)
	m.SetDoubleAt(0, 1, 0)
	m.SetDoubleAt(0, 2, float64(dx))
	m.SetDoubleAt(1, 0, 0)
	m.SetDoubleAt(1, 1, 1)
	m.SetDoubleAt(1, 2, float64(dy))

	shifted := gocv.NewMat()
	gocv.WarpAffine(frame.Mat(), &shifted, m, frame.Size())
	if shifted.Empty() {
		shifted.Close()
		t.logger.WithField("stage", t.Name()).Debug("Translation produced no output, forwarding unchanged copy")
		t.Emit(frame.Clone())
		return
	}

	t.logger.WithFields(logrus.Fields{
		"stage": t.Name(),
		"seq":   frame.Seq(),
		"dx":    dx,
		"dy":    dy,
	}).Trace("Translated frame")

	t.Emit(frame.Derive(shifted))
}

// draw returns a uniform integer in [-bound, bound].
func (t *Translate) draw(bound int) int {
	if bound <= 0 {
		return 0
	}
	return t.rng.Intn(2*bound+1) - bound
}
