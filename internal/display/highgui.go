package display

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"video-effects-chain/internal/core"
)

const (
	keyEsc = 27
	keyQ   = 'q'
)

// HighGUI shows frames in OpenCV windows. It must be used from a single goroutine.
type HighGUI struct {
	windows map[string]*gocv.Window
	order   []string
	stop    bool
	logger  logrus.FieldLogger
}

var (
	_ Surface            = (*HighGUI)(nil)
	_ core.StopRequester = (*HighGUI)(nil)
)

func NewHighGUI(logger logrus.FieldLogger) *HighGUI {
	return &HighGUI{
		windows: make(map[string]*gocv.Window),
		logger:  logger,
	}
}

func (h *HighGUI) Show(name string, frame *core.Frame) {
	h.window(name).IMShow(frame.Mat())
}

// PollEvents runs one 1ms highgui event tick and records quit requests:
// Esc, q, or a window closed by the user.
func (h *HighGUI) PollEvents() {
	if len(h.order) == 0 {
		return
	}

	key := h.windows[h.order[0]].WaitKey(1)
	if key == keyEsc || key == keyQ {
		h.logger.WithField("key", key).Info("Quit key pressed")
		h.stop = true
	}

	for _, name := range h.order {
		if !h.windows[name].IsOpen() {
			h.logger.WithField("window", name).Info("Window closed")
			h.stop = true
		}
	}
}

func (h *HighGUI) StopRequested() bool {
	return h.stop
}

func (h *HighGUI) CloseWindow(name string) error {
	w, ok := h.windows[name]
	if !ok {
		return nil
	}
	delete(h.windows, name)
	for i, n := range h.order {
		if n == name {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close window %q: %w", name, err)
	}
	return nil
}

// Close destroys every remaining window
func (h *HighGUI) Close() error {
	var errs []error
	for _, name := range append([]string(nil), h.order...) {
		errs = append(errs, h.CloseWindow(name))
	}
	return errors.Join(errs...)
}

func (h *HighGUI) window(name string) *gocv.Window {
	if w, ok := h.windows[name]; ok {
		return w
	}
	w := gocv.NewWindow(name)
	h.windows[name] = w
	h.order = append(h.order, name)
	h.logger.WithField("window", name).Debug("Window opened")
	return w
}
