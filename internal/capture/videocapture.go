package capture

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"video-effects-chain/internal/core"
)

// videoCapture reads from an OpenCV capture device or video file.
type videoCapture struct {
	vc *gocv.VideoCapture
}

// OpenDevice opens the camera with index opts.Device.
func OpenDevice(opts Options, logger logrus.FieldLogger) (*Source, error) {
	vc, err := gocv.OpenVideoCapture(opts.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: open capture device %d: %w", core.ErrAcquisition, opts.Device, err)
	}
	return openVideoCapture(KindDevice, vc, opts, logger.WithField("device", opts.Device))
}

// OpenFile opens the video file at opts.Path.
func OpenFile(opts Options, logger logrus.FieldLogger) (*Source, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: no video file given", core.ErrAcquisition)
	}
	vc, err := gocv.VideoCaptureFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open video file %q: %w", core.ErrAcquisition, opts.Path, err)
	}
	return openVideoCapture(KindFile, vc, opts, logger.WithField("path", opts.Path))
}

func openVideoCapture(kind string, vc *gocv.VideoCapture, opts Options, logger logrus.FieldLogger) (*Source, error) {
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: %s capture is not opened", core.ErrAcquisition, kind)
	}

	if opts.Width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(opts.Width))
	}
	if opts.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(opts.Height))
	}
	if opts.FPS > 0 {
		vc.Set(gocv.VideoCaptureFPS, opts.FPS)
	}

	logger.WithFields(logrus.Fields{
		"width":  vc.Get(gocv.VideoCaptureFrameWidth),
		"height": vc.Get(gocv.VideoCaptureFrameHeight),
		"fps":    vc.Get(gocv.VideoCaptureFPS),
	}).Info("Capture opened")

	return newSource(kind, &videoCapture{vc: vc}, opts.Limit, logger), nil
}

func (c *videoCapture) read() (gocv.Mat, error) {
	if !c.vc.IsOpened() {
		return gocv.Mat{}, fmt.Errorf("%w: capture closed", core.ErrSourceExhausted)
	}

	mat := gocv.NewMat()
	if ok := c.vc.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("%w: no frame returned", core.ErrSourceExhausted)
	}
	return mat, nil
}

func (c *videoCapture) close() error {
	return c.vc.Close()
}
