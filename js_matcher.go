//go:build js_eval

package styles

import (
	"github.com/dop251/goja"
)

type jsProgram struct {
	predicate ModPredicate
	program   *goja.Program
}

type jsMatcher struct {
	cache ProgramCache
}

// NewJSMatcher constructs a ModMatcher backed by goja.
func NewJSMatcher(opts ...MatcherOption) ModMatcher {
	cfg := applyMatcherOptions(opts)
	return &jsMatcher{cache: cfg.cache}
}

func (m *jsMatcher) Match(key string, mods Mods) (bool, error) {
	compiled, err := m.loadOrCompile(key)
	if err != nil {
		return false, err
	}
	if compiled.predicate.IsDefault() {
		return true, nil
	}
	vm := goja.New()
	for name, value := range compiled.predicate.bindings(mods) {
		if err := vm.Set(name, value); err != nil {
			return false, wrapMatcherError("js", err)
		}
	}
	value, err := vm.RunProgram(compiled.program)
	if err != nil {
		return false, wrapMatcherError("js", err)
	}
	return value.ToBoolean(), nil
}

func (m *jsMatcher) loadOrCompile(key string) (*jsProgram, error) {
	if cached, ok := m.cache.Get(key); ok {
		if compiled, ok := cached.(*jsProgram); ok {
			return compiled, nil
		}
	}
	predicate, err := ParseModExpr(key)
	if err != nil {
		return nil, err
	}
	compiled := &jsProgram{predicate: predicate}
	if !predicate.IsDefault() {
		program, err := goja.Compile("", "("+predicate.render(positionalIdent)+")", false)
		if err != nil {
			return nil, wrapMatcherError("js", err)
		}
		compiled.program = program
	}
	m.cache.Set(key, compiled)
	return compiled, nil
}

func jsMatcherAvailable() bool {
	return true
}

func isJSMatcher(m ModMatcher) bool {
	_, ok := m.(*jsMatcher)
	return ok
}
