package styles

import (
	"sort"
	"strings"

	"github.com/goliatone/go-styles/pkg/activity"
)

// Entry pairs a style-prop name with its raw value.
type Entry struct {
	Name  string
	Value any
}

// StyleMap is an ordered collection of style props. Iteration order is the
// declaration order and drives the textual order of the compiled CSS.
type StyleMap []Entry

// Get returns the value stored for name.
func (m StyleMap) Get(name string) (any, bool) {
	for i := len(m) - 1; i >= 0; i-- {
		if m[i].Name == name {
			return m[i].Value, true
		}
	}
	return nil, false
}

// Len returns the number of distinct style names.
func (m StyleMap) Len() int {
	return len(m.Names())
}

// Names returns style names in declaration order. Duplicate names keep the
// position of their first occurrence.
func (m StyleMap) Names() []string {
	if len(m) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(m))
	names := make([]string, 0, len(m))
	for _, entry := range m {
		if _, ok := seen[entry.Name]; ok {
			continue
		}
		seen[entry.Name] = struct{}{}
		names = append(names, entry.Name)
	}
	return names
}

// Set returns a copy of m with name bound to value. Replacing an existing
// name keeps its original position.
func (m StyleMap) Set(name string, value any) StyleMap {
	out := make(StyleMap, 0, len(m)+1)
	replaced := false
	for _, entry := range m {
		if entry.Name == name {
			if !replaced {
				out = append(out, Entry{Name: name, Value: value})
				replaced = true
			}
			continue
		}
		out = append(out, entry)
	}
	if !replaced {
		out = append(out, Entry{Name: name, Value: value})
	}
	return out
}

// compact folds duplicate names so every name appears once at its first
// position with its last value.
func (m StyleMap) compact() StyleMap {
	names := m.Names()
	if len(names) == len(m) {
		return m
	}
	out := make(StyleMap, 0, len(names))
	for _, name := range names {
		value, _ := m.Get(name)
		out = append(out, Entry{Name: name, Value: value})
	}
	return out
}

// State binds a mod expression to a value inside a States map.
type State struct {
	Key   string
	Value any
}

// States is an ordered state map keyed by mod expressions. The empty key is
// the default.
type States []State

// Zones is a responsive value holding one entry per breakpoint zone.
type Zones []any

// Mods is the set of active boolean modifiers.
type Mods map[string]bool

// NewMods builds a Mods set with every name active.
func NewMods(names ...string) Mods {
	mods := make(Mods, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		mods[name] = true
	}
	return mods
}

// Active reports whether name is set.
func (m Mods) Active(name string) bool {
	return m[name]
}

// Names returns active mod names sorted alphabetically.
func (m Mods) Names() []string {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name, on := range m {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	name          string
	registry      *Registry
	cache         *RenderCache
	cacheCapacity int
	matcher       ModMatcher
	programCache  ProgramCache
	logger        RenderLogger
	activityHooks activity.Hooks
}

func applyOptions(opts []Option) engineConfig {
	cfg := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithName labels the engine in log events and activity records.
func WithName(name string) Option {
	return func(cfg *engineConfig) {
		cfg.name = strings.TrimSpace(name)
	}
}

// WithRegistry sets the handler registry used for dispatch.
func WithRegistry(registry *Registry) Option {
	return func(cfg *engineConfig) {
		cfg.registry = registry
	}
}

// WithCache sets an explicitly owned render cache.
func WithCache(cache *RenderCache) Option {
	return func(cfg *engineConfig) {
		cfg.cache = cache
	}
}

// WithCacheCapacity sizes the render cache created by the engine. Ignored when
// WithCache is supplied.
func WithCacheCapacity(capacity int) Option {
	return func(cfg *engineConfig) {
		cfg.cacheCapacity = capacity
	}
}

// WithModMatcher sets the matcher used to evaluate state keys.
func WithModMatcher(matcher ModMatcher) Option {
	return func(cfg *engineConfig) {
		cfg.matcher = matcher
	}
}

// WithProgramCache shares a compiled predicate cache with the default matcher.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *engineConfig) {
		cfg.programCache = cache
	}
}

// WithRenderLogger attaches a render logger to the engine.
func WithRenderLogger(logger RenderLogger) Option {
	return func(cfg *engineConfig) {
		if logger == nil {
			cfg.logger = noopRenderLogger{}
			return
		}
		cfg.logger = logger
	}
}
