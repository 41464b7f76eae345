package capture

import (
	"image"
	"image/color"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Pattern defaults
const (
	DefaultPatternWidth  = 640
	DefaultPatternHeight = 480
	DefaultPatternFrames = 300
	patternStep          = 4
)

// colorBars are the classic SMPTE-like bars, left to right
var colorBars = []color.RGBA{
	{R: 192, G: 192, B: 192, A: 255},
	{R: 192, G: 192, B: 0, A: 255},
	{R: 0, G: 192, B: 192, A: 255},
	{R: 0, G: 192, B: 0, A: 255},
	{R: 192, G: 0, B: 192, A: 255},
	{R: 192, G: 0, B: 0, A: 255},
	{R: 0, G: 0, B: 192, A: 255},
	{R: 16, G: 16, B: 16, A: 255},
}

// pattern synthesises color bars scrolling patternStep pixels per frame.
type pattern struct {
	width  int
	height int
	tick   int
}

// NewPattern creates a synthetic source; it never fails to open.
// Without a limit it stops after DefaultPatternFrames frames.
func NewPattern(opts Options, logger logrus.FieldLogger) *Source {
	p := &pattern{width: opts.Width, height: opts.Height}
	if p.width <= 0 {
		p.width = DefaultPatternWidth
	}
	if p.height <= 0 {
		p.height = DefaultPatternHeight
	}
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultPatternFrames
	}

	logger.WithFields(logrus.Fields{
		"width":  p.width,
		"height": p.height,
		"frames": limit,
	}).Info("Test pattern opened")

	return newSource(KindPattern, p, limit, logger)
}

func (p *pattern) read() (gocv.Mat, error) {
	mat := gocv.NewMatWithSize(p.height, p.width, gocv.MatTypeCV8UC3)

	barWidth := (p.width + len(colorBars) - 1) / len(colorBars)
	phase := (p.tick * patternStep) % p.width
	p.tick++

	for i, c := range colorBars {
		x0 := (i*barWidth + phase) % p.width
		x1 := x0 + barWidth
		gocv.Rectangle(&mat, image.Rect(x0, 0, min(x1, p.width), p.height), c, -1)
		if x1 > p.width {
			gocv.Rectangle(&mat, image.Rect(0, 0, x1-p.width, p.height), c, -1)
		}
	}
	return mat, nil
}

func (p *pattern) close() error {
	return nil
}
