package display

import (
	"video-effects-chain/internal/core"
)

// Kind names used in pipeline configuration
const (
	KindDisplay            = "display"
	KindPassthroughDisplay = "passthrough_display"
)

// Sink shows every frame it receives and forwards nothing.
type Sink struct {
	core.Named
	window  string
	surface Surface
}

var _ core.Stage = (*Sink)(nil)

func NewSink(name, window string, surface Surface) *Sink {
	return &Sink{
		Named:   core.Named(name),
		window:  window,
		surface: surface,
	}
}

// Window returns the window title the sink draws into
func (s *Sink) Window() string { return s.window }

// Process shows the frame and gives the surface one event tick.
func (s *Sink) Process(frame *core.Frame) {
	s.surface.Show(s.window, frame)
	s.surface.PollEvents()
}

// Close closes the sink's window.
func (s *Sink) Close() error {
	return s.surface.CloseWindow(s.window)
}

// PassthroughSink shows the frame it receives and forwards that very same
// frame, untouched, to its outputs.
type PassthroughSink struct {
	core.Named
	core.Fanout
	window  string
	surface Surface
}

var _ core.Stage = (*PassthroughSink)(nil)

func NewPassthroughSink(name, window string, surface Surface, outputs ...core.Stage) *PassthroughSink {
	return &PassthroughSink{
		Named:   core.Named(name),
		Fanout:  core.NewFanout(outputs...),
		window:  window,
		surface: surface,
	}
}

// Window returns the window title the sink draws into
func (s *PassthroughSink) Window() string { return s.window }

// Process shows the frame and forwards it. Event ticks are left to the
// terminal sink further down the chain.
func (s *PassthroughSink) Process(frame *core.Frame) {
	s.surface.Show(s.window, frame)
	s.Send(frame)
}

// Close closes the sink's window.
func (s *PassthroughSink) Close() error {
	return s.surface.CloseWindow(s.window)
}

// Register adds the display sink kinds to registry, bound to surface.
func Register(registry *core.Registry, surface Surface) error {
	kinds := []core.Kind{
		{
			Name:        KindDisplay,
			Description: "Shows frames in a window; terminal",
			Terminal:    true,
			Parameters: []core.ParameterInfo{
				{Name: "window", Type: "string", Default: "Processed Video", Description: "Window title"},
			},
			New: func(name string, params core.Params, _ []core.Stage) (core.Stage, error) {
				window, err := params.String("window", "Processed Video")
				if err != nil {
					return nil, err
				}
				return NewSink(name, window, surface), nil
			},
		},
		{
			Name:        KindPassthroughDisplay,
			Description: "Shows frames in a window and forwards the original frame",
			Parameters: []core.ParameterInfo{
				{Name: "window", Type: "string", Default: "Original Video", Description: "Window title"},
			},
			New: func(name string, params core.Params, outputs []core.Stage) (core.Stage, error) {
				window, err := params.String("window", "Original Video")
				if err != nil {
					return nil, err
				}
				return NewPassthroughSink(name, window, surface, outputs...), nil
			},
		},
	}

	for _, kind := range kinds {
		if err := registry.Register(kind); err != nil {
			return err
		}
	}
	return nil
}
