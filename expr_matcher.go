package styles

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

type exprProgram struct {
	predicate ModPredicate
	program   *exprvm.Program
}

// exprMatcher evaluates state keys using github.com/expr-lang/expr.
type exprMatcher struct {
	cache ProgramCache
}

// NewExprMatcher constructs a ModMatcher that compiles each key into an expr
// program over positional boolean variables.
func NewExprMatcher(opts ...MatcherOption) ModMatcher {
	cfg := applyMatcherOptions(opts)
	return &exprMatcher{cache: cfg.cache}
}

func (m *exprMatcher) Match(key string, mods Mods) (bool, error) {
	compiled, err := m.loadOrCompile(key)
	if err != nil {
		return false, err
	}
	if compiled.predicate.IsDefault() {
		return true, nil
	}
	result, err := exprlang.Run(compiled.program, compiled.predicate.bindings(mods))
	if err != nil {
		return false, wrapMatcherError("expr", err)
	}
	matched, _ := result.(bool)
	return matched, nil
}

func (m *exprMatcher) loadOrCompile(key string) (*exprProgram, error) {
	if cached, ok := m.cache.Get(key); ok {
		if compiled, ok := cached.(*exprProgram); ok {
			return compiled, nil
		}
	}
	predicate, err := ParseModExpr(key)
	if err != nil {
		return nil, err
	}
	compiled := &exprProgram{predicate: predicate}
	if !predicate.IsDefault() {
		env := predicate.bindings(nil)
		program, err := exprlang.Compile(
			predicate.render(positionalIdent),
			exprlang.Env(env),
			exprlang.AsBool(),
		)
		if err != nil {
			return nil, wrapMatcherError("expr", err)
		}
		compiled.program = program
	}
	m.cache.Set(key, compiled)
	return compiled, nil
}
