// Frame data structure flowing through the stage graph
package core

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// maxDimension bounds accepted frame sizes to keep allocations sane
const maxDimension = 16384

// Frame is one captured image. Stages treat a received Frame as read-only:
// anything they change is done on a clone or a freshly produced buffer.
type Frame struct {
	mat    gocv.Mat
	seq    uint64
	closed bool
}

// NewFrame wraps mat as a frame. The frame takes ownership of mat.
func NewFrame(mat gocv.Mat, seq uint64) (*Frame, error) {
	if err := ValidateImage(mat); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	return &Frame{mat: mat, seq: seq}, nil
}

// NewFrameFromBytes builds a frame from interleaved 8-bit pixel data.
// The pixel data is copied.
func NewFrameFromBytes(width, height, channels int, pix []byte) (*Frame, error) {
	mt, err := matTypeFor(channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	if want := width * height * channels; len(pix) != want {
		return nil, fmt.Errorf("%w: expected %d bytes for %dx%dx%d, got %d",
			ErrInvalidFrame, want, width, height, channels, len(pix))
	}

	view, err := gocv.NewMatFromBytes(height, width, mt, pix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	defer view.Close()

	mat := view.Clone()
	frame, err := NewFrame(mat, 0)
	if err != nil {
		mat.Close()
		return nil, err
	}
	return frame, nil
}

// Width returns the frame width in pixels
func (f *Frame) Width() int { return f.mat.Cols() }

// Height returns the frame height in pixels
func (f *Frame) Height() int { return f.mat.Rows() }

// Channels returns the number of 8-bit channels per pixel
func (f *Frame) Channels() int { return f.mat.Channels() }

// Seq returns the capture sequence number the frame descends from.
func (f *Frame) Seq() uint64 { return f.seq }

// Size returns the frame dimensions as a point (width, height).
func (f *Frame) Size() image.Point { return image.Pt(f.Width(), f.Height()) }

// Mat exposes the underlying buffer. Callers must not write to it.
func (f *Frame) Mat() gocv.Mat { return f.mat }

// Clone returns an independent deep copy carrying the same sequence number.
func (f *Frame) Clone() *Frame {
	return &Frame{mat: f.mat.Clone(), seq: f.seq}
}

// Derive wraps mat as a frame descending from f. The new frame owns mat.
func (f *Frame) Derive(mat gocv.Mat) *Frame {
	return &Frame{mat: mat, seq: f.seq}
}

// Pixel returns the channel values at column x, row y.
func (f *Frame) Pixel(x, y int) []uint8 {
	return []uint8(f.mat.GetVecbAt(y, x))
}

// Bytes returns a copy of the interleaved pixel data.
func (f *Frame) Bytes() []byte {
	return f.mat.ToBytes()
}

// Image converts the frame into a Go image; the result shares no memory with the frame.
func (f *Frame) Image() (image.Image, error) {
	return f.mat.ToImage()
}

// SameShape reports whether both frames have equal dimensions and channel layout.
func (f *Frame) SameShape(other *Frame) bool {
	return f.Width() == other.Width() &&
		f.Height() == other.Height() &&
		f.Channels() == other.Channels()
}

// Close releases the pixel buffer. It is safe to call more than once.
func (f *Frame) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.mat.Close()
}

// String describes the frame for logs
func (f *Frame) String() string {
	return fmt.Sprintf("Frame(#%d %dx%dx%d)", f.seq, f.Width(), f.Height(), f.Channels())
}

// ValidateImage validates an OpenCV Mat for use as a frame
func ValidateImage(mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("image is empty")
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", mat.Cols(), mat.Rows())
	}

	if mat.Cols() > maxDimension || mat.Rows() > maxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", mat.Cols(), mat.Rows(), maxDimension)
	}

	switch mat.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	default:
		return fmt.Errorf("unsupported mat type: %v", mat.Type())
	}

	return nil
}

func matTypeFor(channels int) (gocv.MatType, error) {
	switch channels {
	case 1:
		return gocv.MatTypeCV8UC1, nil
	case 3:
		return gocv.MatTypeCV8UC3, nil
	case 4:
		return gocv.MatTypeCV8UC4, nil
	}
	return 0, fmt.Errorf("unsupported number of channels: %d", channels)
}
