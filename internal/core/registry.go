// Stage kind registry with parameter descriptions for validation and listing
package core

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
)

// Params holds the raw parameters of one stage as decoded from configuration.
type Params map[string]any

// ParameterInfo describes a stage parameter
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "int", "string", "color"
	Min         any    `json:"min,omitempty"`
	Max         any    `json:"max,omitempty"`
	Default     any    `json:"default"`
	Description string `json:"description"`
}

// Factory builds a stage instance forwarding to outputs.
type Factory func(name string, params Params, outputs []Stage) (Stage, error)

// Kind is a registered stage type.
type Kind struct {
	Name        string
	Description string
	Parameters  []ParameterInfo
	// Terminal kinds refuse outputs.
	Terminal bool
	New      Factory
}

// Registry maps kind names to factories.
type Registry struct {
	kinds map[string]Kind
}

func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// Register adds a kind. Registering the same name twice is an error.
func (r *Registry) Register(kind Kind) error {
	if kind.Name == "" {
		return fmt.Errorf("stage kind without a name")
	}
	if kind.New == nil {
		return fmt.Errorf("stage kind %q has no factory", kind.Name)
	}
	if _, exists := r.kinds[kind.Name]; exists {
		return fmt.Errorf("stage kind %q already registered", kind.Name)
	}
	r.kinds[kind.Name] = kind
	return nil
}

func (r *Registry) Lookup(name string) (Kind, bool) {
	kind, ok := r.kinds[name]
	return kind, ok
}

// Kinds returns all registered kinds sorted by name.
func (r *Registry) Kinds() []Kind {
	result := make([]Kind, 0, len(r.kinds))
	for _, kind := range r.kinds {
		result = append(result, kind)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// New validates params against the kind's description and builds the stage.
func (r *Registry) New(kindName, name string, params Params, outputs []Stage) (Stage, error) {
	kind, ok := r.kinds[kindName]
	if !ok {
		return nil, fmt.Errorf("%w: stage %q: unknown kind %q", ErrInvalidPipeline, name, kindName)
	}
	if kind.Terminal && len(outputs) > 0 {
		return nil, fmt.Errorf("%w: stage %q: kind %q is terminal and cannot have outputs",
			ErrInvalidPipeline, name, kindName)
	}
	if err := ValidateParameters(kind.Parameters, params); err != nil {
		return nil, fmt.Errorf("%w: stage %q: %w", ErrInvalidPipeline, name, err)
	}

	stage, err := kind.New(name, params, outputs)
	if err != nil {
		return nil, fmt.Errorf("%w: stage %q: %w", ErrInvalidPipeline, name, err)
	}
	return stage, nil
}

// ValidateParameters rejects unknown names, wrong types and out-of-range values.
func ValidateParameters(infos []ParameterInfo, params Params) error {
	known := make(map[string]ParameterInfo, len(infos))
	for _, info := range infos {
		known[info.Name] = info
	}

	for name, value := range params {
		info, ok := known[name]
		if !ok {
			return fmt.Errorf("unknown parameter %q", name)
		}

		switch info.Type {
		case "int":
			v, err := toInt(value)
			if err != nil {
				return fmt.Errorf("parameter %q: %w", name, err)
			}
			if lo, ok := toFloat(info.Min); ok && float64(v) < lo {
				return fmt.Errorf("%s must be between %v and %v", name, info.Min, info.Max)
			}
			if hi, ok := toFloat(info.Max); ok && float64(v) > hi {
				return fmt.Errorf("%s must be between %v and %v", name, info.Min, info.Max)
			}
		case "string":
			if _, ok := value.(string); !ok {
				return fmt.Errorf("parameter %q: expected a string, got %T", name, value)
			}
		case "color":
			if _, err := toColor(value); err != nil {
				return fmt.Errorf("parameter %q: %w", name, err)
			}
		}
	}

	return nil
}

// Int returns an integer parameter or def when absent.
func (p Params) Int(name string, def int) (int, error) {
	value, ok := p[name]
	if !ok {
		return def, nil
	}
	v, err := toInt(value)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", name, err)
	}
	return v, nil
}

// String returns a string parameter or def when absent.
func (p Params) String(name, def string) (string, error) {
	value, ok := p[name]
	if !ok {
		return def, nil
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q: expected a string, got %T", name, value)
	}
	return s, nil
}

// Color returns a color parameter or def when absent. Colors are written
// as "#rrggbb" or as a list of three 0-255 components [r, g, b].
func (p Params) Color(name string, def color.RGBA) (color.RGBA, error) {
	value, ok := p[name]
	if !ok {
		return def, nil
	}
	c, err := toColor(value)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parameter %q: %w", name, err)
	}
	return c, nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func toInt(value any) (int, error) {
	f, ok := toFloat(value)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected an integer, got %v", f)
	}
	return int(f), nil
}

func toColor(value any) (color.RGBA, error) {
	switch v := value.(type) {
	case string:
		s := strings.TrimPrefix(v, "#")
		raw, err := hex.DecodeString(s)
		if err != nil || len(raw) != 3 {
			return color.RGBA{}, fmt.Errorf("invalid color %q, expected #rrggbb", v)
		}
		return color.RGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}, nil
	case []any:
		if len(v) != 3 {
			return color.RGBA{}, fmt.Errorf("expected 3 color components, got %d", len(v))
		}
		var rgb [3]uint8
		for i, component := range v {
			n, err := toInt(component)
			if err != nil || n < 0 || n > 255 {
				return color.RGBA{}, fmt.Errorf("color component %v out of range 0-255", component)
			}
			rgb[i] = uint8(n)
		}
		return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
	}
	return color.RGBA{}, fmt.Errorf("expected a color, got %T", value)
}
