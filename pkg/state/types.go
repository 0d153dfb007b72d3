package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	styles "github.com/goliatone/go-styles"
)

// ErrETagMismatch reports a concurrent update detected during Mutate.
var ErrETagMismatch = errors.New("state: etag mismatch")

// LayerRef names a preset layer and its precedence.
type LayerRef struct {
	Name     string
	Label    string
	Priority int
}

// Ref identifies one persisted preset: the styles one layer applies to one
// component.
type Ref struct {
	Component string
	Layer     LayerRef
}

// Identifier returns the deterministic storage key "layer/component".
func (r Ref) Identifier() (string, error) {
	component := strings.TrimSpace(r.Component)
	layer := strings.TrimSpace(r.Layer.Name)
	if component == "" {
		return "", fmt.Errorf("state: component is required")
	}
	if layer == "" {
		return "", fmt.Errorf("state: layer name is required")
	}
	if strings.Contains(component, "/") || strings.Contains(layer, "/") {
		return "", fmt.Errorf("state: %q and %q must not contain '/'", layer, component)
	}
	return layer + "/" + component, nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	ETag      string            `json:"etag,omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one preset for a single reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (preset styles.StyleMap, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, preset styles.StyleMap, meta Meta) (Meta, error)
}

// Resolver loads preset layers and merges them.
type Resolver struct {
	Store Store
}

// Mutator edits a preset in place.
type Mutator func(styles.StyleMap) (styles.StyleMap, error)

// Resolve loads the preset of every layer for component and merges them.
// Missing presets are skipped. The returned stack can trace provenance.
func (r Resolver) Resolve(ctx context.Context, component string, layers ...LayerRef) (styles.StyleMap, *styles.Stack, error) {
	return r.ResolveWithProps(ctx, component, nil, layers...)
}

// ResolveWithProps resolves the stored layers and places props above all of
// them, the way explicit component props override presets.
func (r Resolver) ResolveWithProps(ctx context.Context, component string, props styles.StyleMap, layers ...LayerRef) (styles.StyleMap, *styles.Stack, error) {
	if r.Store == nil {
		return nil, nil, fmt.Errorf("state: store is required")
	}
	if component == "" {
		return nil, nil, fmt.Errorf("state: component is required")
	}

	maxPriority := 0
	stackLayers := make([]styles.Layer, 0, len(layers)+1)
	for i, layer := range layers {
		if layer.Name == "props" && props != nil {
			return nil, nil, fmt.Errorf("state: layer name %q is reserved", "props")
		}
		if i == 0 || layer.Priority > maxPriority {
			maxPriority = layer.Priority
		}
		preset, _, ok, err := r.Store.Load(ctx, Ref{Component: component, Layer: layer})
		if err != nil {
			return nil, nil, fmt.Errorf("state: load %q for layer %q: %w", component, layer.Name, err)
		}
		if !ok {
			continue
		}
		stackLayers = append(stackLayers, styles.NewLayer(layer.Name, layer.Priority, preset, styles.WithLayerLabel(layer.Label)))
	}
	if props != nil {
		stackLayers = append(stackLayers, styles.NewLayer("props", maxPriority+1, props, styles.WithLayerLabel("Props")))
	}
	if len(stackLayers) == 0 {
		return nil, nil, fmt.Errorf("state: no layers found for component %q", component)
	}

	stack, err := styles.NewStack(stackLayers...)
	if err != nil {
		return nil, nil, fmt.Errorf("state: stack: %w", err)
	}
	return stack.Merge(), stack, nil
}

// Mutate loads one preset, applies fn, validates the result and saves it.
func (r Resolver) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator) (styles.StyleMap, Meta, error) {
	if r.Store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return nil, Meta{}, err
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("state: mutator is required")
	}

	preset, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q for layer %q: %w", ref.Component, ref.Layer.Name, err)
	}
	if !ok {
		preset = nil
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return nil, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	updated, err := fn(preset)
	if err != nil {
		return nil, loadedMeta, err
	}
	if err := updated.Validate(); err != nil {
		return nil, loadedMeta, err
	}

	savedMeta, err := r.Store.Save(ctx, ref, updated, mergeMeta(loadedMeta, meta))
	if err != nil {
		return nil, loadedMeta, fmt.Errorf("state: save %q for layer %q: %w", ref.Component, ref.Layer.Name, err)
	}
	return updated, savedMeta, nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
