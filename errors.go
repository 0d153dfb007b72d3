package styles

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedValue reports a style value that is neither a scalar, a
	// States map nor a Zones array.
	ErrUnsupportedValue = errors.New("styles: unsupported style value")
	// ErrNestedValue reports responsive and state values nested deeper than
	// one level.
	ErrNestedValue = errors.New("styles: nested style value")
	// ErrInvalidModExpr reports a malformed mod expression.
	ErrInvalidModExpr = errors.New("styles: invalid mod expression")
	// ErrStyleNameRequired reports registration under an empty style name.
	ErrStyleNameRequired = errors.New("styles: style name must not be empty")
	// ErrHandlerNil reports registration of a nil handler.
	ErrHandlerNil = errors.New("styles: handler is nil")
	// ErrNoMatcher reports a matcher backend that is not available in this build.
	ErrNoMatcher = errors.New("styles: mod matcher not available")
)

// StyleError captures the style prop and handler that failed alongside the
// originating error.
type StyleError struct {
	Style   string
	Handler string
	Err     error
}

func (e *StyleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Handler == "" {
		return fmt.Sprintf("styles: style %s: %v", describeStyle(e.Style), e.Err)
	}
	return fmt.Sprintf("styles: style %s handler=%s: %v", describeStyle(e.Style), e.Handler, e.Err)
}

func (e *StyleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeStyle(style string) string {
	if style == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%q", style)
}

func wrapMatcherError(engine string, err error) error {
	if err == nil {
		return nil
	}
	if strings.HasPrefix(err.Error(), "styles:") {
		return err
	}
	return fmt.Errorf("styles: %s matcher: %w", engine, err)
}

func wrapStyleError(style, handler string, err error) error {
	if err == nil {
		return nil
	}

	var styleErr *StyleError
	if errors.As(err, &styleErr) {
		if styleErr.Style == "" {
			styleErr.Style = style
		}
		if styleErr.Handler == "" {
			styleErr.Handler = handler
		}
		return styleErr
	}

	return &StyleError{
		Style:   style,
		Handler: handler,
		Err:     err,
	}
}

func asStyleError(err error) *StyleError {
	var styleErr *StyleError
	if errors.As(err, &styleErr) {
		return styleErr
	}
	return nil
}
