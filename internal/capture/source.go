// Package capture provides the frame sources feeding the driver loop.
package capture

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"video-effects-chain/internal/core"
)

// Source kinds accepted by Open
const (
	KindDevice       = "device"
	KindFile         = "file"
	KindImages       = "images"
	KindPattern      = "pattern"
	KindMediaDevices = "mediadevices"
)

// Options configures a source. Zero values mean "backend default".
type Options struct {
	// Device is the OpenCV camera index.
	Device int
	// DeviceID selects a camera by ID for the mediadevices backend.
	DeviceID string
	// Path is a video file for KindFile or a glob for KindImages.
	Path   string
	Width  int
	Height int
	FPS    float64
	// Limit stops the stream after that many frames (0 = unlimited).
	Limit uint64
}

// reader is implemented by each backend. read returns core.ErrSourceExhausted
// at the natural end of the stream; any other error also ends the stream.
type reader interface {
	read() (gocv.Mat, error)
	close() error
}

// Source adapts a backend reader to core.Source: it numbers frames,
// enforces the frame limit and turns the first failure into exhaustion.
type Source struct {
	kind   string
	reader reader
	limit  uint64
	seq    uint64
	done   bool
	closed bool
	logger logrus.FieldLogger
}

var _ core.Source = (*Source)(nil)

func newSource(kind string, r reader, limit uint64, logger logrus.FieldLogger) *Source {
	return &Source{
		kind:   kind,
		reader: r,
		limit:  limit,
		logger: logger.WithField("source", kind),
	}
}

// Kind returns the backend name
func (s *Source) Kind() string { return s.kind }

// Frames returns how many frames were delivered
func (s *Source) Frames() uint64 { return s.seq }

// TryReadFrame returns the next frame, or ok=false once the stream is over.
// After the first false every later call returns false too.
func (s *Source) TryReadFrame() (*core.Frame, bool) {
	if s.done || s.closed {
		return nil, false
	}

	if s.limit > 0 && s.seq >= s.limit {
		s.finish(fmt.Errorf("%w: frame limit %d reached", core.ErrSourceExhausted, s.limit))
		return nil, false
	}

	mat, err := s.reader.read()
	if err != nil {
		s.finish(err)
		return nil, false
	}

	frame, err := core.NewFrame(mat, s.seq)
	if err != nil {
		mat.Close()
		s.finish(err)
		return nil, false
	}

	s.seq++
	return frame, true
}

// Close releases the backend. It is safe to call more than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.reader.close(); err != nil {
		return fmt.Errorf("close %s source: %w", s.kind, err)
	}
	return nil
}

func (s *Source) finish(err error) {
	s.done = true
	logger := s.logger.WithField("frames", s.seq)
	if errors.Is(err, core.ErrSourceExhausted) {
		logger.WithError(err).Info("Capture stream ended")
		return
	}
	logger.WithError(err).Warn("Capture failed, treating as end of stream")
}

// Open creates the source selected by kind. Failures wrap core.ErrAcquisition.
func Open(kind string, opts Options, logger logrus.FieldLogger) (*Source, error) {
	switch kind {
	case KindDevice:
		return OpenDevice(opts, logger)
	case KindFile:
		return OpenFile(opts, logger)
	case KindImages:
		return OpenImages(opts, logger)
	case KindPattern:
		return NewPattern(opts, logger), nil
	case KindMediaDevices:
		return OpenMediaDevices(opts, logger)
	}
	return nil, fmt.Errorf("%w: unknown source kind %q", core.ErrAcquisition, kind)
}
