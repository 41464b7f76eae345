// internal/core/pipeline.go
// Fixed acyclic stage graph assembled once at startup
package core

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// StageConfig declares one stage instance and the names of its outputs.
type StageConfig struct {
	Name    string         `toml:"name" yaml:"name"`
	Kind    string         `toml:"kind" yaml:"kind"`
	Params  map[string]any `toml:"params" yaml:"params"`
	Outputs []string       `toml:"outputs" yaml:"outputs"`
}

// PipelineConfig declares the whole graph and its entry stage.
type PipelineConfig struct {
	Entry  string        `toml:"entry" yaml:"entry"`
	Stages []StageConfig `toml:"stages" yaml:"stages"`
}

// Pipeline is an assembled stage graph. Only the entry stage is driven
// from outside; the graph is never modified after assembly.
type Pipeline struct {
	entry  Stage
	stages []Stage
	byName map[string]Stage
	closed bool
}

// outputLister is implemented by stages embedding Fanout.
type outputLister interface {
	Outputs() []Stage
}

// New assembles a pipeline from an already wired entry stage. The graph
// reachable from entry is walked to check for cycles and duplicate names.
func New(entry Stage) (*Pipeline, error) {
	if entry == nil {
		return nil, fmt.Errorf("%w: nil entry stage", ErrInvalidPipeline)
	}

	p := &Pipeline{entry: entry, byName: make(map[string]Stage)}
	state := make(map[Stage]visitState)

	var walk func(stage Stage, path []string) error
	walk = func(stage Stage, path []string) error {
		path = append(path, stage.Name())
		switch state[stage] {
		case visiting:
			return fmt.Errorf("%w: cycle %s", ErrInvalidPipeline, strings.Join(path, " -> "))
		case visited:
			return nil
		}
		state[stage] = visiting

		if lister, ok := stage.(outputLister); ok {
			for _, out := range lister.Outputs() {
				if err := walk(out, path); err != nil {
					return err
				}
			}
		}

		state[stage] = visited
		return p.add(stage)
	}

	if err := walk(entry, nil); err != nil {
		return nil, err
	}
	return p, nil
}

// Build constructs the graph declared by cfg, building every stage's
// outputs before the stage itself.
func Build(cfg PipelineConfig, registry *Registry) (*Pipeline, error) {
	if len(cfg.Stages) == 0 {
		return nil, fmt.Errorf("%w: no stages declared", ErrInvalidPipeline)
	}

	decls := make(map[string]StageConfig, len(cfg.Stages))
	for _, decl := range cfg.Stages {
		if decl.Name == "" {
			return nil, fmt.Errorf("%w: stage of kind %q has no name", ErrInvalidPipeline, decl.Kind)
		}
		if _, dup := decls[decl.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate stage name %q", ErrInvalidPipeline, decl.Name)
		}
		decls[decl.Name] = decl
	}

	entryName := cfg.Entry
	if entryName == "" {
		entryName = cfg.Stages[0].Name
	}
	if _, ok := decls[entryName]; !ok {
		return nil, fmt.Errorf("%w: entry stage %q is not declared", ErrInvalidPipeline, entryName)
	}

	b := &builder{
		decls:    decls,
		registry: registry,
		state:    make(map[string]visitState),
		pipeline: &Pipeline{byName: make(map[string]Stage)},
	}

	entry, err := b.build(entryName, nil)
	if err != nil {
		return nil, err
	}
	b.pipeline.entry = entry

	if len(b.pipeline.stages) != len(decls) {
		var unreachable []string
		for name := range decls {
			if _, ok := b.pipeline.byName[name]; !ok {
				unreachable = append(unreachable, name)
			}
		}
		sort.Strings(unreachable)
		return nil, fmt.Errorf("%w: stages not reachable from %q: %s",
			ErrInvalidPipeline, entryName, strings.Join(unreachable, ", "))
	}

	return b.pipeline, nil
}

// Entry returns the stage frames are submitted to.
func (p *Pipeline) Entry() Stage {
	return p.entry
}

// Stage looks up a stage by instance name.
func (p *Pipeline) Stage(name string) (Stage, bool) {
	stage, ok := p.byName[name]
	return stage, ok
}

// Stages returns every stage, outputs before the stages feeding them.
func (p *Pipeline) Stages() []Stage {
	result := make([]Stage, len(p.stages))
	copy(result, p.stages)
	return result
}

// Close closes every stage holding resources. Subsequent calls do nothing.
func (p *Pipeline) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for _, stage := range p.stages {
		closer, ok := stage.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stage %q: %w", stage.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (p *Pipeline) add(stage Stage) error {
	if _, dup := p.byName[stage.Name()]; dup {
		return fmt.Errorf("%w: duplicate stage name %q", ErrInvalidPipeline, stage.Name())
	}
	p.byName[stage.Name()] = stage
	p.stages = append(p.stages, stage)
	return nil
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

type builder struct {
	decls    map[string]StageConfig
	registry *Registry
	state    map[string]visitState
	pipeline *Pipeline
}

func (b *builder) build(name string, path []string) (Stage, error) {
	path = append(path, name)

	switch b.state[name] {
	case visiting:
		return nil, fmt.Errorf("%w: cycle %s", ErrInvalidPipeline, strings.Join(path, " -> "))
	case visited:
		return b.pipeline.byName[name], nil
	}

	decl, ok := b.decls[name]
	if !ok {
		return nil, fmt.Errorf("%w: stage %q references undeclared output %q",
			ErrInvalidPipeline, path[len(path)-2], name)
	}
	b.state[name] = visiting

	outputs := make([]Stage, 0, len(decl.Outputs))
	for _, outName := range decl.Outputs {
		out, err := b.build(outName, path)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	stage, err := b.registry.New(decl.Kind, decl.Name, Params(decl.Params), outputs)
	if err != nil {
		return nil, err
	}

	b.state[name] = visited
	if err := b.pipeline.add(stage); err != nil {
		return nil, err
	}
	return stage, nil
}
