package core

import "slices"

// Stage is a node of the processing graph. Process must not mutate frame;
// a stage that changes pixels produces its own frame and hands that one on.
type Stage interface {
	Name() string
	Process(frame *Frame)
}

// StopRequester is implemented by collaborators that can ask the driver
// to stop between frames, e.g. a display surface whose window was closed.
type StopRequester interface {
	StopRequested() bool
}

// Fanout is the fixed output list embedded by every forwarding stage.
// The list is copied at construction and never changes afterwards.
type Fanout struct {
	outputs []Stage
}

// NewFanout captures outputs in order, skipping nil entries.
func NewFanout(outputs ...Stage) Fanout {
	list := make([]Stage, 0, len(outputs))
	for _, out := range outputs {
		if out != nil {
			list = append(list, out)
		}
	}
	return Fanout{outputs: list}
}

// Outputs returns a copy of the downstream stages in registration order.
func (o Fanout) Outputs() []Stage {
	return slices.Clone(o.outputs)
}

// Terminal reports whether there is nowhere to forward to.
func (o Fanout) Terminal() bool {
	return len(o.outputs) == 0
}

// Send forwards frame to every output in registration order. Each call
// returns before the next output starts.
func (o Fanout) Send(frame *Frame) {
	for _, out := range o.outputs {
		out.Process(frame)
	}
}

// Emit sends a frame produced by the calling stage and releases it once
// every output has returned.
func (o Fanout) Emit(frame *Frame) {
	defer frame.Close()
	o.Send(frame)
}

// Named carries the instance name of a stage.
type Named string

// Name returns the stage instance name
func (n Named) Name() string { return string(n) }

// String implements fmt.Stringer
func (n Named) String() string { return string(n) }
