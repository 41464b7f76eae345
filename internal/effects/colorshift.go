package effects

import (
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"video-effects-chain/internal/core"
)

// ColorShift adds a fixed offset to one channel of every pixel, saturating at 255.
type ColorShift struct {
	core.Named
	core.Fanout
	channel int
	offset  uint8
	logger  logrus.FieldLogger
	warned  bool
}

var _ core.Stage = (*ColorShift)(nil)

// NewColorShift creates a color shift stage. Channels are in BGR order for
// three-channel frames, so channel 2 tints red.
func NewColorShift(name string, channel int, offset uint8, logger logrus.FieldLogger, outputs ...core.Stage) *ColorShift {
	return &ColorShift{
		Named:   core.Named(name),
		Fanout:  core.NewFanout(outputs...),
		channel: channel,
		offset:  offset,
		logger:  logger,
	}
}

func (c *ColorShift) Process(frame *core.Frame) {
	if c.channel < 0 || c.channel >= frame.Channels() {
		if !c.warned {
			c.warned = true
			c.logger.WithFields(logrus.Fields{
				"stage":    c.Name(),
				"channel":  c.channel,
				"channels": frame.Channels(),
			}).Debug("Channel outside frame layout, forwarding unchanged copy")
		}
		c.Emit(frame.Clone())
		return
	}

	var val [4]float64
	val[c.channel] = float64(c.offset)
	shift := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(val[0], val[1], val[2], val[3]),
		frame.Height(), frame.Width(), frame.Mat().Type(),
	)
	defer shift.Close()

	shifted := gocv.NewMat()
	if err := gocv.Add(frame.Mat(), shift, &shifted); err != nil {
		shifted.Close()
		c.logger.WithError(err).WithField("stage", c.Name()).Debug("Color shift failed, forwarding unchanged copy")
		c.Emit(frame.Clone())
		return
	}

	c.Emit(frame.Derive(shifted))
}
