// Package hydrate decodes JSON documents while keeping object key order.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject reports a document whose top-level value is not an object.
var ErrNotObject = errors.New("hydrate: payload is not an object")

// Context identifies the payload being decoded in error messages.
type Context struct {
	Source string
}

func (c Context) label() string {
	if c.Source == "" {
		return "<inline>"
	}
	return c.Source
}

// Field is one key/value pair of a decoded object.
type Field struct {
	Key   string
	Value any
}

// Object is a decoded JSON object in document order. Duplicate keys are kept
// as they appear.
type Object []Field

// PreHook lets callers rewrite the raw payload before decoding.
type PreHook func(Context, []byte) ([]byte, error)

// PostHook lets callers validate or adjust the decoded value.
type PostHook func(Context, any) (any, error)

// DecoderOption configures a Decoder instance.
type DecoderOption func(*Decoder)

// Decoder turns JSON into nil, bool, string, json.Number, Object and []any
// values.
type Decoder struct {
	preHooks  []PreHook
	postHooks []PostHook
	maxDepth  int
}

// WithPreHook applies hook prior to decoding.
func WithPreHook(hook PreHook) DecoderOption {
	return func(d *Decoder) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook(hook PostHook) DecoderOption {
	return func(d *Decoder) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithMaxDepth limits nesting of objects and arrays. Zero means unlimited.
func WithMaxDepth(depth int) DecoderOption {
	return func(d *Decoder) {
		d.maxDepth = depth
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into ordered values applying configured hooks.
func (d *Decoder) Decode(ctx Context, payload []byte) (any, error) {
	current := payload
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("hydrate: pre-hook for %s failed: %w", ctx.label(), err)
		}
		if next != nil {
			current = next
		}
	}

	dec := json.NewDecoder(bytes.NewReader(current))
	dec.UseNumber()
	result, err := d.decodeValue(dec, 0)
	if err != nil {
		return nil, fmt.Errorf("hydrate: decode %s: %w", ctx.label(), err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("hydrate: decode %s: trailing data after value", ctx.label())
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, result)
		if err != nil {
			return nil, fmt.Errorf("hydrate: post-hook for %s failed: %w", ctx.label(), err)
		}
		result = next
	}
	return result, nil
}

// DecodeObject decodes payload and requires an object at the top level.
func (d *Decoder) DecodeObject(ctx Context, payload []byte) (Object, error) {
	value, err := d.Decode(ctx, payload)
	if err != nil {
		return nil, err
	}
	switch typed := value.(type) {
	case Object:
		return typed, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s holds %T", ErrNotObject, ctx.label(), value)
	}
}

func (d *Decoder) decodeValue(dec *json.Decoder, depth int) (any, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := token.(json.Delim)
	if !ok {
		return token, nil
	}
	if d.maxDepth > 0 && depth >= d.maxDepth {
		return nil, fmt.Errorf("nesting deeper than %d", d.maxDepth)
	}

	switch delim {
	case '{':
		object := Object{}
		for dec.More() {
			keyToken, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyToken)
			}
			value, err := d.decodeValue(dec, depth+1)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", key, err)
			}
			object = append(object, Field{Key: key, Value: value})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return object, nil
	case '[':
		array := []any{}
		for dec.More() {
			value, err := d.decodeValue(dec, depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", len(array), err)
			}
			array = append(array, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return array, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
