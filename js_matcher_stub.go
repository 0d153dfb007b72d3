//go:build !js_eval

package styles

// NewJSMatcher is unavailable without the js_eval build tag.
func NewJSMatcher(opts ...MatcherOption) ModMatcher {
	_ = applyMatcherOptions(opts)
	return nil
}

func jsMatcherAvailable() bool {
	return false
}

func isJSMatcher(ModMatcher) bool {
	return false
}
