// Run statistics for the frame driver
package metrics

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats accumulates per-frame traversal timings. It is owned by the driver
// goroutine and is not safe for concurrent use.
type Stats struct {
	interval uint64
	now      func() time.Time

	started time.Time
	frames  uint64
	busy    time.Duration
	slowest time.Duration
	last    time.Duration
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	Frames     uint64
	Elapsed    time.Duration
	Busy       time.Duration
	Slowest    time.Duration
	Last       time.Duration
	AvgLatency time.Duration
	FPS        float64
}

// NewStats creates statistics that report every interval frames (0 disables periodic reports).
func NewStats(interval uint64) *Stats {
	return NewStatsWithClock(interval, time.Now)
}

// NewStatsWithClock is NewStats with an injectable clock.
func NewStatsWithClock(interval uint64, now func() time.Time) *Stats {
	return &Stats{
		interval: interval,
		now:      now,
		started:  now(),
	}
}

// Observe records one frame traversal and reports whether a periodic
// report is due.
func (s *Stats) Observe(took time.Duration) bool {
	s.frames++
	s.busy += took
	s.last = took
	if took > s.slowest {
		s.slowest = took
	}
	return s.interval > 0 && s.frames%s.interval == 0
}

// Frames returns the number of frames observed so far
func (s *Stats) Frames() uint64 {
	return s.frames
}

// Snapshot returns the current counters
func (s *Stats) Snapshot() Snapshot {
	elapsed := s.now().Sub(s.started)
	snap := Snapshot{
		Frames:  s.frames,
		Elapsed: elapsed,
		Busy:    s.busy,
		Slowest: s.slowest,
		Last:    s.last,
	}
	if s.frames > 0 {
		snap.AvgLatency = s.busy / time.Duration(s.frames)
	}
	if elapsed > 0 {
		snap.FPS = float64(s.frames) / elapsed.Seconds()
	}
	return snap
}

// Summary renders the snapshot for humans, e.g.
// "1,234 frames in 41s (30.1 fps, avg 3.2ms per frame)".
func (snap Snapshot) Summary() string {
	return fmt.Sprintf("%s frames in %s (%s fps, avg %s per frame)",
		humanize.Comma(int64(snap.Frames)),
		snap.Elapsed.Round(time.Second),
		humanize.CommafWithDigits(snap.FPS, 1),
		snap.AvgLatency.Round(100*time.Microsecond),
	)
}
