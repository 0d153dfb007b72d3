package styles

import "fmt"

// ModMatcher decides whether a state key matches the active mods. Every
// implementation must agree on well-formed keys and report malformed keys with
// an error wrapping ErrInvalidModExpr.
type ModMatcher interface {
	Match(key string, mods Mods) (bool, error)
}

// ModMatcherFunc adapts a function to ModMatcher.
type ModMatcherFunc func(key string, mods Mods) (bool, error)

// Match implements ModMatcher.
func (f ModMatcherFunc) Match(key string, mods Mods) (bool, error) {
	if f == nil {
		return false, ErrNoMatcher
	}
	return f(key, mods)
}

type matcherConfig struct {
	cache ProgramCache
}

// MatcherOption configures a ModMatcher instance.
type MatcherOption func(*matcherConfig)

// MatcherWithProgramCache shares cache between matchers so each key compiles
// once per process.
func MatcherWithProgramCache(cache ProgramCache) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.cache = cache
	}
}

func applyMatcherOptions(opts []MatcherOption) matcherConfig {
	cfg := matcherConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.cache == nil {
		cfg.cache = NewMemoryProgramCache()
	}
	return cfg
}

type nativeMatcher struct {
	cache ProgramCache
}

// NewNativeMatcher constructs the default matcher. Keys are parsed once into a
// ModPredicate and reused from the program cache.
func NewNativeMatcher(opts ...MatcherOption) ModMatcher {
	cfg := applyMatcherOptions(opts)
	return &nativeMatcher{cache: cfg.cache}
}

func (m *nativeMatcher) Match(key string, mods Mods) (bool, error) {
	predicate, err := m.loadOrParse(key)
	if err != nil {
		return false, err
	}
	return predicate.Match(mods), nil
}

func (m *nativeMatcher) loadOrParse(key string) (ModPredicate, error) {
	if cached, ok := m.cache.Get(key); ok {
		if predicate, ok := cached.(ModPredicate); ok {
			return predicate, nil
		}
	}
	predicate, err := ParseModExpr(key)
	if err != nil {
		return ModPredicate{}, err
	}
	m.cache.Set(key, predicate)
	return predicate, nil
}

func matcherEngineName(m ModMatcher) string {
	switch m.(type) {
	case nil:
		return "unknown"
	case *nativeMatcher:
		return "native"
	case *exprMatcher:
		return "expr"
	case *celMatcher:
		return "cel"
	default:
		if isJSMatcher(m) {
			return "js"
		}
		return "custom"
	}
}

// NewMatcher constructs a matcher by engine name: native, expr, cel or js.
func NewMatcher(engine string, opts ...MatcherOption) (ModMatcher, error) {
	switch engine {
	case "", "native":
		return NewNativeMatcher(opts...), nil
	case "expr":
		return NewExprMatcher(opts...), nil
	case "cel":
		return NewCELMatcher(opts...), nil
	case "js":
		if !jsMatcherAvailable() {
			return nil, fmt.Errorf("%w: js (build with -tags js_eval)", ErrNoMatcher)
		}
		return NewJSMatcher(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoMatcher, engine)
	}
}
