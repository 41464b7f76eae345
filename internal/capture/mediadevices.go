package capture

import (
	"errors"
	"fmt"
	"io"

	"github.com/pion/mediadevices"
	_ "github.com/pion/mediadevices/pkg/driver/camera" // registers the camera driver
	"github.com/pion/mediadevices/pkg/io/video"
	"github.com/pion/mediadevices/pkg/prop"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"video-effects-chain/internal/core"
)

// mediaDevicesCamera reads raw camera frames through pion/mediadevices.
type mediaDevicesCamera struct {
	track  mediadevices.Track
	reader video.Reader
}

// OpenMediaDevices opens a camera without going through OpenCV's videoio.
// When the requested size is rejected it retries without format constraints.
func OpenMediaDevices(opts Options, logger logrus.FieldLogger) (*Source, error) {
	stream, err := mediadevices.GetUserMedia(mediadevices.MediaStreamConstraints{
		Video: func(c *mediadevices.MediaTrackConstraints) {
			if opts.Width > 0 {
				c.Width = prop.Int(opts.Width)
			}
			if opts.Height > 0 {
				c.Height = prop.Int(opts.Height)
			}
			if opts.FPS > 0 {
				c.FrameRate = prop.Float(opts.FPS)
			}
			if opts.DeviceID != "" {
				c.DeviceID = prop.String(opts.DeviceID)
			}
		},
	})
	if err != nil {
		logger.WithError(err).Warn("Camera rejected constraints, retrying with minimal constraints")
		stream, err = mediadevices.GetUserMedia(mediadevices.MediaStreamConstraints{
			Video: func(c *mediadevices.MediaTrackConstraints) {
				if opts.DeviceID != "" {
					c.DeviceID = prop.String(opts.DeviceID)
				}
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: get user media: %w", core.ErrAcquisition, err)
		}
	}

	tracks := stream.GetVideoTracks()
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no video track", core.ErrAcquisition)
	}
	for _, extra := range tracks[1:] {
		extra.Close()
	}

	videoTrack, ok := tracks[0].(*mediadevices.VideoTrack)
	if !ok {
		tracks[0].Close()
		return nil, fmt.Errorf("%w: track %s is not a video track", core.ErrAcquisition, tracks[0].ID())
	}

	logger = logger.WithField("track", videoTrack.ID())
	logger.Info("Camera opened")

	camera := &mediaDevicesCamera{
		track:  videoTrack,
		reader: videoTrack.NewReader(false),
	}
	return newSource(KindMediaDevices, camera, opts.Limit, logger), nil
}

func (c *mediaDevicesCamera) read() (gocv.Mat, error) {
	img, release, err := c.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return gocv.Mat{}, fmt.Errorf("%w: %w", core.ErrSourceExhausted, err)
		}
		return gocv.Mat{}, fmt.Errorf("read camera frame: %w", err)
	}
	defer release()

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("convert camera frame: %w", err)
	}
	return mat, nil
}

func (c *mediaDevicesCamera) close() error {
	return c.track.Close()
}

// Device is a camera visible to the mediadevices backend.
type Device struct {
	ID    string
	Label string
}

// ListDevices enumerates the video inputs usable with --device-id.
func ListDevices() []Device {
	var result []Device
	for _, info := range mediadevices.EnumerateDevices() {
		if info.Kind != mediadevices.VideoInput {
			continue
		}
		result = append(result, Device{ID: info.DeviceID, Label: info.Label})
	}
	return result
}
