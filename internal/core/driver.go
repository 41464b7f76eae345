package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"video-effects-chain/internal/metrics"
)

// Source produces frames on demand. ok=false means the stream is over for good.
type Source interface {
	TryReadFrame() (frame *Frame, ok bool)
	Close() error
}

// Driver pulls frames from a source and pushes each one through the
// pipeline, one frame at a time.
type Driver struct {
	source   Source
	pipeline *Pipeline
	stop     StopRequester
	closers  []io.Closer
	stats    *metrics.Stats
	logger   logrus.FieldLogger
}

// DriverOption configures a Driver
type DriverOption func(*Driver)

// WithStopRequester makes the driver poll stop between frames.
func WithStopRequester(stop StopRequester) DriverOption {
	return func(d *Driver) { d.stop = stop }
}

// WithClosers registers resources released after the pipeline, in order.
func WithClosers(closers ...io.Closer) DriverOption {
	return func(d *Driver) { d.closers = append(d.closers, closers...) }
}

// WithStats replaces the default statistics collector.
func WithStats(stats *metrics.Stats) DriverOption {
	return func(d *Driver) { d.stats = stats }
}

// WithLogger sets the driver logger
func WithLogger(logger logrus.FieldLogger) DriverOption {
	return func(d *Driver) { d.logger = logger }
}

func NewDriver(source Source, pipeline *Pipeline, opts ...DriverOption) *Driver {
	d := &Driver{
		source:   source,
		pipeline: pipeline,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.stats == nil {
		d.stats = metrics.NewStats(0)
	}
	return d
}

// Stats exposes the run statistics
func (d *Driver) Stats() *metrics.Stats {
	return d.stats
}

// Run drives frames until the source is exhausted, ctx is cancelled or a
// stop is requested. Stopping is only observed between frames. On return
// the source, the pipeline stages and the extra closers have been released.
// A normal end of stream is not an error.
func (d *Driver) Run(ctx context.Context) error {
	entry := d.pipeline.Entry()
	logger := d.logger.WithField("entry", entry.Name())
	logger.Info("Driver loop started")

	defer func() {
		if err := d.release(); err != nil {
			logger.WithError(err).Warn("Failed to release pipeline resources")
		}
		logger.WithField("summary", d.stats.Snapshot().Summary()).Info("Driver loop finished")
	}()

	for {
		if reason := d.stopReason(ctx); reason != "" {
			logger.WithField("reason", reason).Info("Stopping between frames")
			return nil
		}

		frame, ok := d.source.TryReadFrame()
		if !ok {
			logger.WithField("reason", ErrSourceExhausted).Info("Stopping at end of stream")
			return nil
		}

		start := time.Now()
		entry.Process(frame)
		frame.Close()

		if d.stats.Observe(time.Since(start)) {
			snap := d.stats.Snapshot()
			logger.WithFields(logrus.Fields{
				"frames":  snap.Frames,
				"fps":     fmt.Sprintf("%.2f", snap.FPS),
				"avg":     snap.AvgLatency,
				"slowest": snap.Slowest,
			}).Debug("Pipeline throughput")
		}
	}
}

func (d *Driver) stopReason(ctx context.Context) string {
	if err := ctx.Err(); err != nil {
		return err.Error()
	}
	if d.stop != nil && d.stop.StopRequested() {
		return "stop requested"
	}
	return ""
}

func (d *Driver) release() error {
	var errs []error
	if err := d.source.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close source: %w", err))
	}
	if err := d.pipeline.Close(); err != nil {
		errs = append(errs, err)
	}
	for _, closer := range d.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
