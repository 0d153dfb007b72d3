package styles

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-styles/layering"
)

// Recommended priorities for the defaults/context/props pattern. Higher
// numbers win.
const (
	LayerPriorityDefaults = 100
	LayerPriorityContext  = 200
	LayerPriorityProps    = 300
)

// Layer is a named StyleMap contributing to a merged component style.
type Layer struct {
	Name     string
	Label    string
	Priority int
	Styles   StyleMap
}

// LayerOption configures optional Layer fields.
type LayerOption func(*Layer)

// WithLayerLabel sets a human-friendly label on the layer.
func WithLayerLabel(label string) LayerOption {
	return func(layer *Layer) {
		layer.Label = label
	}
}

// NewLayer builds a Layer holding a deep copy of styles.
func NewLayer(name string, priority int, styles StyleMap, opts ...LayerOption) Layer {
	layer := Layer{
		Name:     name,
		Priority: priority,
		Styles:   layering.Clone(styles),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&layer)
	}
	return layer
}

var (
	// ErrLayerNameRequired indicates a layer without a name.
	ErrLayerNameRequired = errors.New("styles: layer name must be provided")
	// ErrDuplicateLayerName indicates several layers share a name.
	ErrDuplicateLayerName = errors.New("styles: layer names must be unique")
	// ErrPriorityOrder indicates duplicate layer priorities.
	ErrPriorityOrder = errors.New("styles: layer priorities must be strictly ordered")
)

// Stack is an immutable set of layers ordered from strongest to weakest.
type Stack struct {
	layers []Layer
}

// NewStack validates layers and sorts them so the highest priority comes
// first.
func NewStack(layers ...Layer) (*Stack, error) {
	if len(layers) == 0 {
		return &Stack{}, nil
	}

	seen := make(map[string]struct{}, len(layers))
	copied := make([]Layer, len(layers))
	for i, layer := range layers {
		if layer.Name == "" {
			return nil, ErrLayerNameRequired
		}
		if _, ok := seen[layer.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLayerName, layer.Name)
		}
		seen[layer.Name] = struct{}{}
		layer.Styles = layering.Clone(layer.Styles)
		copied[i] = layer
	}

	sort.Slice(copied, func(i, j int) bool {
		if copied[i].Priority == copied[j].Priority {
			return copied[i].Name < copied[j].Name
		}
		return copied[i].Priority > copied[j].Priority
	})
	for i := 1; i < len(copied); i++ {
		if copied[i-1].Priority <= copied[i].Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Priority)
		}
	}
	return &Stack{layers: copied}, nil
}

// Layers returns copies of the layers, strongest first.
func (s *Stack) Layers() []Layer {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	out := make([]Layer, len(s.layers))
	for i, layer := range s.layers {
		layer.Styles = layering.Clone(layer.Styles)
		out[i] = layer
	}
	return out
}

// Len returns the number of layers in the stack.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Merge folds the layers into one StyleMap. A style takes the value of the
// strongest layer that sets it and keeps the position where the weakest
// layer declared it.
func (s *Stack) Merge() StyleMap {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	maps := make([][]Entry, len(s.layers))
	for i, layer := range s.layers {
		maps[i] = layer.Styles.compact()
	}
	return StyleMap(layering.MergeOrdered(entryName, maps...))
}

func entryName(entry Entry) string {
	return entry.Name
}

// DefaultsContextProps merges component defaults, context presets and
// explicit props the way a Stack with the recommended priorities does.
func DefaultsContextProps(defaults, context, props StyleMap) StyleMap {
	return StyleMap(layering.MergeOrdered(entryName, props.compact(), context.compact(), defaults.compact()))
}
