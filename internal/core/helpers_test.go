package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder is a test stage that remembers what it received.
type recorder struct {
	Named
	Fanout
	log    *[]string
	frames []*Frame
	bytes  [][]byte
	closed int
}

func newRecorder(name string, log *[]string, outputs ...Stage) *recorder {
	return &recorder{Named: Named(name), Fanout: NewFanout(outputs...), log: log}
}

func (r *recorder) Process(frame *Frame) {
	if r.log != nil {
		*r.log = append(*r.log, r.Name())
	}
	r.frames = append(r.frames, frame)
	r.bytes = append(r.bytes, frame.Bytes())
	r.Send(frame)
}

func (r *recorder) Close() error {
	r.closed++
	return nil
}

// solidFrame creates a width x height BGR frame filled with one value per channel.
func solidFrame(t *testing.T, width, height int, b, g, r byte) *Frame {
	t.Helper()
	pix := make([]byte, width*height*3)
	for i := 0; i < len(pix); i += 3 {
		pix[i], pix[i+1], pix[i+2] = b, g, r
	}
	frame, err := NewFrameFromBytes(width, height, 3, pix)
	require.NoError(t, err)
	return frame
}

// recorderRegistry registers a "record" kind backed by recorder and a
// terminal "sink" kind. Built stages are collected in built.
func recorderRegistry(t *testing.T, built map[string]*recorder) *Registry {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, registry.Register(Kind{
		Name:       "record",
		Parameters: []ParameterInfo{{Name: "level", Type: "int", Min: 0, Max: 10, Default: 1}},
		New: func(name string, params Params, outputs []Stage) (Stage, error) {
			r := newRecorder(name, nil, outputs...)
			built[name] = r
			return r, nil
		},
	}))
	require.NoError(t, registry.Register(Kind{
		Name:     "sink",
		Terminal: true,
		New: func(name string, params Params, outputs []Stage) (Stage, error) {
			r := newRecorder(name, nil)
			built[name] = r
			return r, nil
		},
	}))
	return registry
}
