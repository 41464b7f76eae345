// Image file sequence loading
package capture

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"video-effects-chain/internal/core"
)

var supportedFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// imageSequence replays still images in lexical file order. Every image is
// resized to the dimensions of the first one so the frame shape stays fixed.
type imageSequence struct {
	paths  []string
	next   int
	size   image.Point
	logger logrus.FieldLogger
}

// OpenImages reads the files matching the glob opts.Path.
func OpenImages(opts Options, logger logrus.FieldLogger) (*Source, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: no image pattern given", core.ErrAcquisition)
	}

	matches, err := filepath.Glob(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: bad image pattern %q: %w", core.ErrAcquisition, opts.Path, err)
	}

	paths := make([]string, 0, len(matches))
	for _, path := range matches {
		if isSupportedImageFormat(path) {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no supported images match %q", core.ErrAcquisition, opts.Path)
	}
	sort.Strings(paths)

	logger = logger.WithField("pattern", opts.Path)
	logger.WithField("images", len(paths)).Info("Image sequence opened")

	seq := &imageSequence{paths: paths, logger: logger}
	if opts.Width > 0 && opts.Height > 0 {
		seq.size = image.Pt(opts.Width, opts.Height)
	}
	return newSource(KindImages, seq, opts.Limit, logger), nil
}

func (s *imageSequence) read() (gocv.Mat, error) {
	if s.next >= len(s.paths) {
		return gocv.Mat{}, fmt.Errorf("%w: %d images replayed", core.ErrSourceExhausted, len(s.paths))
	}
	path := s.paths[s.next]
	s.next++

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("failed to load image: %s", path)
	}

	s.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Debug("Image loaded")

	if s.size == (image.Point{}) {
		s.size = image.Pt(mat.Cols(), mat.Rows())
		return mat, nil
	}
	if mat.Cols() == s.size.X && mat.Rows() == s.size.Y {
		return mat, nil
	}

	resized := gocv.NewMat()
	err := gocv.Resize(mat, &resized, s.size, 0, 0, gocv.InterpolationLinear)
	mat.Close()
	if err != nil {
		resized.Close()
		return gocv.Mat{}, fmt.Errorf("resize %s to %v: %w", path, s.size, err)
	}
	return resized, nil
}

func (s *imageSequence) close() error {
	s.next = len(s.paths)
	return nil
}

func isSupportedImageFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
