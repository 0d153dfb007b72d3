package styles

import (
	"fmt"
	"strings"
	"sync"

	"github.com/stoewer/go-strcase"
)

// Declaration is a single CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// Declarations is an ordered declaration block.
type Declarations []Declaration

// Decl builds a single-declaration block.
func Decl(property, value string) Declarations {
	return Declarations{{Property: property, Value: value}}
}

// String renders one "property: value;" line per declaration, skipping
// declarations without a property or value.
func (d Declarations) String() string {
	if len(d) == 0 {
		return ""
	}
	var b strings.Builder
	for _, decl := range d {
		if decl.Property == "" || strings.TrimSpace(decl.Value) == "" {
			continue
		}
		b.WriteString(decl.Property)
		b.WriteString(": ")
		b.WriteString(decl.Value)
		b.WriteString(";\n")
	}
	return b.String()
}

// Values holds the resolved scalars a handler reads, keyed by lookup style.
// Styles absent from the StyleMap are absent from Values.
type Values map[string]any

// Raw returns the resolved scalar for style.
func (v Values) Raw(style string) any {
	return v[style]
}

// Has reports whether style resolved to something other than a no-value.
func (v Values) Has(style string) bool {
	return !isNoValue(v[style])
}

// IsTrue reports whether style resolved to the boolean true.
func (v Values) IsTrue(style string) bool {
	b, ok := v[style].(bool)
	return ok && b
}

// CSS parses the value of style with ParseStyle.
func (v Values) CSS(style string, opts ...ParseOption) string {
	return ParseStyle(v[style], opts...)
}

// Handler turns resolved style values into CSS declarations.
type Handler interface {
	// LookupStyles lists the style props the handler reads.
	LookupStyles() []string
	// Apply emits declarations for the resolved values. An empty result emits
	// nothing.
	Apply(Values) Declarations
}

// HandlerFunc is the function form of Handler.Apply.
type HandlerFunc func(Values) Declarations

type funcHandler struct {
	name   string
	lookup []string
	fn     HandlerFunc
}

// NewHandler builds a named Handler reading the lookup styles.
func NewHandler(name string, fn HandlerFunc, lookup ...string) Handler {
	return &funcHandler{
		name:   name,
		lookup: append([]string(nil), lookup...),
		fn:     fn,
	}
}

func (h *funcHandler) LookupStyles() []string {
	return append([]string(nil), h.lookup...)
}

func (h *funcHandler) Apply(values Values) Declarations {
	if h.fn == nil {
		return nil
	}
	return h.fn(values)
}

func (h *funcHandler) Name() string {
	return h.name
}

func handlerName(h Handler) string {
	if named, ok := h.(interface{ Name() string }); ok && named.Name() != "" {
		return named.Name()
	}
	return fmt.Sprintf("%T", h)
}

// lengthProperties receive a px unit when given a bare number.
var lengthProperties = map[string]struct{}{
	"width": {}, "height": {}, "min-width": {}, "min-height": {},
	"max-width": {}, "max-height": {}, "top": {}, "right": {}, "bottom": {},
	"left": {}, "inset": {}, "font-size": {}, "letter-spacing": {},
	"border-width": {}, "border-radius": {}, "outline-offset": {},
	"padding": {}, "padding-top": {}, "padding-right": {}, "padding-bottom": {},
	"padding-left": {}, "margin": {}, "margin-top": {}, "margin-right": {},
	"margin-bottom": {}, "margin-left": {}, "gap": {}, "row-gap": {},
	"column-gap": {}, "flex-basis": {},
}

var autoHandlers sync.Map

// AutoHandler returns the handler used for style props without a registered
// handler: the property is the kebab-cased style name and the value is the
// parsed scalar. Handlers are memoized per style name.
func AutoHandler(style string) Handler {
	if cached, ok := autoHandlers.Load(style); ok {
		return cached.(Handler)
	}
	property := cssProperty(style)
	var opts []ParseOption
	if _, ok := lengthProperties[property]; ok {
		opts = append(opts, ParseWithUnit("px"))
	}
	handler := NewHandler(style, func(values Values) Declarations {
		if !values.Has(style) || values.IsTrue(style) {
			return nil
		}
		return Decl(property, values.CSS(style, opts...))
	}, style)
	actual, _ := autoHandlers.LoadOrStore(style, handler)
	return actual.(Handler)
}

func cssProperty(style string) string {
	if strings.HasPrefix(style, "--") {
		return style
	}
	return strcase.KebabCase(style)
}
