package activity

import (
	"context"
	"maps"
	"strings"
)

// DefaultChannel is used when neither the event nor the emitter sets one.
const DefaultChannel = "styles"

// Config controls what an Emitter forwards.
type Config struct {
	Enabled bool
	Channel string
	// Verbs limits emission to the listed verbs. Empty allows every verb.
	Verbs []string
	// Metadata is merged under each event's own metadata.
	Metadata map[string]any
}

// Emitter applies channel and metadata defaults before notifying hooks.
type Emitter struct {
	hooks    Hooks
	channel  string
	verbs    map[string]struct{}
	metadata map[string]any
}

// NewEmitter builds an emitter. A disabled config or an empty hook list
// yields an emitter that drops everything.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	e := &Emitter{channel: strings.TrimSpace(cfg.Channel)}
	if e.channel == "" {
		e.channel = DefaultChannel
	}
	if !cfg.Enabled {
		return e
	}
	for _, hook := range hooks {
		if hook != nil {
			e.hooks = append(e.hooks, hook)
		}
	}
	if len(cfg.Verbs) > 0 {
		e.verbs = make(map[string]struct{}, len(cfg.Verbs))
		for _, verb := range cfg.Verbs {
			e.verbs[strings.TrimSpace(verb)] = struct{}{}
		}
	}
	if len(cfg.Metadata) > 0 {
		e.metadata = maps.Clone(cfg.Metadata)
	}
	return e
}

// Enabled reports whether Emit can reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Allows reports whether verb passes the verb filter.
func (e *Emitter) Allows(verb string) bool {
	if e == nil {
		return false
	}
	if e.verbs == nil {
		return true
	}
	_, ok := e.verbs[strings.TrimSpace(verb)]
	return ok
}

// Emit forwards event to the hooks when enabled and allowed.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() || !e.Allows(event.Verb) {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if len(e.metadata) > 0 {
		merged := maps.Clone(e.metadata)
		maps.Copy(merged, event.Metadata)
		event.Metadata = merged
	}
	return e.hooks.Notify(ctx, event)
}
