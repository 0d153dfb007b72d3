package styles

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
)

type celProgram struct {
	predicate ModPredicate
	program   celgo.Program
}

type celMatcher struct {
	cache ProgramCache
}

// NewCELMatcher constructs a ModMatcher backed by cel-go.
func NewCELMatcher(opts ...MatcherOption) ModMatcher {
	cfg := applyMatcherOptions(opts)
	return &celMatcher{cache: cfg.cache}
}

func (m *celMatcher) Match(key string, mods Mods) (bool, error) {
	compiled, err := m.loadOrCompile(key)
	if err != nil {
		return false, err
	}
	if compiled.predicate.IsDefault() {
		return true, nil
	}
	out, _, err := compiled.program.Eval(compiled.predicate.bindings(mods))
	if err != nil {
		return false, wrapMatcherError("cel", err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, wrapMatcherError("cel", fmt.Errorf("expected bool result, got %T", out.Value()))
	}
	return matched, nil
}

func (m *celMatcher) loadOrCompile(key string) (*celProgram, error) {
	if cached, ok := m.cache.Get(key); ok {
		if compiled, ok := cached.(*celProgram); ok {
			return compiled, nil
		}
	}
	predicate, err := ParseModExpr(key)
	if err != nil {
		return nil, err
	}
	compiled := &celProgram{predicate: predicate}
	if !predicate.IsDefault() {
		program, err := m.compile(predicate)
		if err != nil {
			return nil, wrapMatcherError("cel", err)
		}
		compiled.program = program
	}
	m.cache.Set(key, compiled)
	return compiled, nil
}

func (m *celMatcher) compile(predicate ModPredicate) (celgo.Program, error) {
	names := predicate.Names()
	opts := make([]celgo.EnvOption, 0, len(names))
	for i := range names {
		opts = append(opts, celgo.Variable(positionalIdent(i), celgo.BoolType))
	}
	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(predicate.render(positionalIdent))
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	return env.Program(ast)
}
