// Package display renders frames into named windows and provides the sink stages.
package display

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"video-effects-chain/internal/core"
)

// Backend names accepted by Open
const (
	BackendHighGUI = "highgui"
	BackendFyne    = "fyne"
	BackendNone    = "none"
)

// Surface shows frames in named windows. Show and PollEvents must return
// promptly; PollEvents is called at least once per displayed frame.
type Surface interface {
	Show(name string, frame *core.Frame)
	PollEvents()
	CloseWindow(name string) error
	Close() error
}

// Open creates a surface for one of the backends that need no extra wiring.
// The fyne backend needs an application and is created with NewFyne.
func Open(backend string, logger logrus.FieldLogger) (Surface, error) {
	switch backend {
	case BackendHighGUI:
		return NewHighGUI(logger), nil
	case BackendNone:
		return NewHeadless(), nil
	}
	return nil, fmt.Errorf("%w: unsupported display backend %q", core.ErrAcquisition, backend)
}
