package styles

import "strings"

// Combinator is a handler that merges several style props into one
// declaration. It fires only when at least one lookup style has a value.
type Combinator struct {
	name     string
	property string
	lookup   []string
	token    func(style string) string
}

// NewCombinator builds a combinator emitting property with one token per
// lookup style that carries a value, comma-joined in lookup order.
func NewCombinator(name, property string, token func(style string) string, lookup ...string) *Combinator {
	return &Combinator{
		name:     name,
		property: property,
		lookup:   append([]string(nil), lookup...),
		token:    token,
	}
}

// Name returns the combinator name.
func (c *Combinator) Name() string {
	return c.name
}

// LookupStyles implements Handler.
func (c *Combinator) LookupStyles() []string {
	return append([]string(nil), c.lookup...)
}

// Apply implements Handler.
func (c *Combinator) Apply(values Values) Declarations {
	tokens := make([]string, 0, len(c.lookup))
	for _, style := range c.lookup {
		if !values.Has(style) {
			continue
		}
		tokens = append(tokens, c.token(style))
	}
	if len(tokens) == 0 {
		return nil
	}
	return Decl(c.property, strings.Join(tokens, ", "))
}

// localBoxShadowVar names the custom property a box-shadow contributor writes.
func localBoxShadowVar(style string) string {
	return "--local-" + style + "-box-shadow"
}

// BoxShadowCombinator merges outline and shadow into one box-shadow
// declaration referencing each contributor's local custom property.
var BoxShadowCombinator = NewCombinator("box-shadow", "box-shadow", func(style string) string {
	return "var(" + localBoxShadowVar(style) + ")"
}, "outline", "shadow")
