package core

import "errors"

var (
	// ErrSourceExhausted signals the normal end of a capture stream.
	ErrSourceExhausted = errors.New("capture source exhausted")

	// ErrAcquisition is wrapped by every failure to open a capture source or display surface.
	ErrAcquisition = errors.New("resource acquisition failed")

	// ErrInvalidPipeline is wrapped by every pipeline construction failure.
	ErrInvalidPipeline = errors.New("invalid pipeline")

	// ErrInvalidFrame is returned when a buffer cannot be used as a frame.
	ErrInvalidFrame = errors.New("invalid frame")
)
