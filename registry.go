package styles

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// registration gives a handler a stable identity so a handler reachable from
// several style props runs once per render.
type registration struct {
	handler Handler
	name    string
}

// Registry maps style-prop names to ordered handler lists. Registration is
// append-only; handlers registered earlier are never replaced.
type Registry struct {
	mu       sync.RWMutex
	styles   map[string][]*registration
	byHandle map[Handler]*registration
	autos    map[string]*registration
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		styles:   make(map[string][]*registration),
		byHandle: make(map[Handler]*registration),
		autos:    make(map[string]*registration),
	}
}

// Register appends handlers to the list for style.
func (r *Registry) Register(style string, handlers ...Handler) error {
	style = strings.TrimSpace(style)
	if style == "" {
		return ErrStyleNameRequired
	}
	for _, handler := range handlers {
		if handler == nil {
			return fmt.Errorf("%w: style %q", ErrHandlerNil, style)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureMaps()
	for _, handler := range handlers {
		reg := r.registrationFor(handler)
		if containsRegistration(r.styles[style], reg) {
			continue
		}
		r.styles[style] = append(r.styles[style], reg)
	}
	return nil
}

// RegisterCombinator registers handler under every style it looks up.
func (r *Registry) RegisterCombinator(handler Handler) error {
	if handler == nil {
		return ErrHandlerNil
	}
	lookup := handler.LookupStyles()
	if len(lookup) == 0 {
		return fmt.Errorf("styles: handler %s has no lookup styles", handlerName(handler))
	}
	for _, style := range lookup {
		if err := r.Register(style, handler); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) ensureMaps() {
	if r.styles == nil {
		r.styles = make(map[string][]*registration)
	}
	if r.byHandle == nil {
		r.byHandle = make(map[Handler]*registration)
	}
	if r.autos == nil {
		r.autos = make(map[string]*registration)
	}
}

// registrationFor reuses the registration of a comparable handler already
// known to the registry. Callers must hold the write lock.
func (r *Registry) registrationFor(handler Handler) *registration {
	comparable := reflect.TypeOf(handler).Comparable()
	if comparable {
		if reg, ok := r.byHandle[handler]; ok {
			return reg
		}
	}
	reg := &registration{handler: handler, name: handlerName(handler)}
	if comparable {
		r.byHandle[handler] = reg
	}
	return reg
}

func containsRegistration(list []*registration, reg *registration) bool {
	for _, existing := range list {
		if existing == reg {
			return true
		}
	}
	return false
}

// Handlers returns the handlers registered for style, or nil.
func (r *Registry) Handlers(style string) []Handler {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	regs := r.styles[style]
	if len(regs) == 0 {
		return nil
	}
	out := make([]Handler, len(regs))
	for i, reg := range regs {
		out[i] = reg.handler
	}
	return out
}

// lookup returns the registrations for style, falling back to a memoized
// auto handler registration.
func (r *Registry) lookup(style string) []*registration {
	r.mu.RLock()
	regs := r.styles[style]
	auto := r.autos[style]
	r.mu.RUnlock()
	if len(regs) > 0 {
		return regs
	}
	if auto != nil {
		return []*registration{auto}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureMaps()
	if auto = r.autos[style]; auto == nil {
		handler := AutoHandler(style)
		auto = &registration{handler: handler, name: handlerName(handler)}
		r.autos[style] = auto
	}
	return []*registration{auto}
}

// Names returns registered style names sorted alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.styles))
	for name := range r.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a registry sharing the same handler registrations. Further
// registrations on either copy do not affect the other.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewRegistry()
	for name, regs := range r.styles {
		clone.styles[name] = append([]*registration(nil), regs...)
	}
	for handler, reg := range r.byHandle {
		clone.byHandle[handler] = reg
	}
	return clone
}

// HandlerDescriptor describes one handler bound to a style prop.
type HandlerDescriptor struct {
	Name         string   `json:"name"`
	LookupStyles []string `json:"lookup_styles"`
	Combinator   bool     `json:"combinator"`
}

// StyleDescriptor lists the handlers registered for a style prop.
type StyleDescriptor struct {
	Style    string              `json:"style"`
	Handlers []HandlerDescriptor `json:"handlers"`
}

// Describe returns descriptors for every registered style sorted by name.
func (r *Registry) Describe() []StyleDescriptor {
	names := r.Names()
	out := make([]StyleDescriptor, 0, len(names))
	for _, name := range names {
		handlers := r.Handlers(name)
		desc := StyleDescriptor{Style: name, Handlers: make([]HandlerDescriptor, 0, len(handlers))}
		for _, handler := range handlers {
			_, combinator := handler.(*Combinator)
			desc.Handlers = append(desc.Handlers, HandlerDescriptor{
				Name:         handlerName(handler),
				LookupStyles: handler.LookupStyles(),
				Combinator:   combinator,
			})
		}
		out = append(out, desc)
	}
	return out
}
