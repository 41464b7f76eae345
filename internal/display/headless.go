package display

import (
	"video-effects-chain/internal/core"
)

// Headless is a surface without windows. It only counts what it was asked
// to do, which makes it useful for batch runs and tests.
type Headless struct {
	shown  map[string]int
	last   map[string]*core.Frame
	polls  int
	closed map[string]bool
	done   bool
	keep   bool
}

var _ Surface = (*Headless)(nil)

func NewHeadless() *Headless {
	return &Headless{
		shown:  make(map[string]int),
		last:   make(map[string]*core.Frame),
		closed: make(map[string]bool),
	}
}

// KeepFrames makes Show retain a clone of the latest frame per window.
func (h *Headless) KeepFrames() *Headless {
	h.keep = true
	return h
}

func (h *Headless) Show(name string, frame *core.Frame) {
	h.shown[name]++
	if !h.keep {
		return
	}
	if prev, ok := h.last[name]; ok {
		prev.Close()
	}
	h.last[name] = frame.Clone()
}

func (h *Headless) PollEvents() { h.polls++ }

func (h *Headless) CloseWindow(name string) error {
	h.closed[name] = true
	if frame, ok := h.last[name]; ok {
		frame.Close()
		delete(h.last, name)
	}
	return nil
}

func (h *Headless) Close() error {
	for name := range h.last {
		_ = h.CloseWindow(name)
	}
	h.done = true
	return nil
}

// Shown returns how many frames were shown in window name
func (h *Headless) Shown(name string) int { return h.shown[name] }

// Polls returns the number of event ticks
func (h *Headless) Polls() int { return h.polls }

// Last returns the retained copy of the latest frame shown in name, if any.
func (h *Headless) Last(name string) (*core.Frame, bool) {
	frame, ok := h.last[name]
	return frame, ok
}

// WindowClosed reports whether CloseWindow was called for name
func (h *Headless) WindowClosed(name string) bool { return h.closed[name] }

// Closed reports whether Close was called
func (h *Headless) Closed() bool { return h.done }
