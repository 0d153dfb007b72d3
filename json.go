package styles

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-styles/internal/hydrate"
)

// MarshalJSON encodes the map as a JSON object in declaration order.
func (m StyleMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONField(&buf, entry.Name, entry.Value); err != nil {
			return nil, fmt.Errorf("style %q: %w", entry.Name, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping key order. Nested objects become
// States and arrays become Zones.
func (m *StyleMap) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeStyleMap("", data)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

// MarshalJSON encodes the states as a JSON object in declaration order.
func (s States) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, state := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONField(&buf, state.Key, state.Value); err != nil {
			return nil, fmt.Errorf("state %q: %w", state.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of mod expressions keeping key order.
func (s *States) UnmarshalJSON(data []byte) error {
	value, err := hydrate.NewDecoder().Decode(hydrate.Context{Source: "states"}, data)
	if err != nil {
		return err
	}
	object, ok := value.(hydrate.Object)
	if !ok {
		return fmt.Errorf("%w: states must be an object, got %T", ErrUnsupportedValue, value)
	}
	states, err := statesFromObject(object)
	if err != nil {
		return err
	}
	*s = states
	return nil
}

func writeJSONField(buf *bytes.Buffer, key string, value any) error {
	encodedKey, err := json.Marshal(key)
	if err != nil {
		return err
	}
	encodedValue, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(encodedKey)
	buf.WriteByte(':')
	buf.Write(encodedValue)
	return nil
}

// DecodeStyleMap decodes a JSON style map. source labels error messages.
func DecodeStyleMap(source string, data []byte) (StyleMap, error) {
	object, err := hydrate.NewDecoder(hydrate.WithMaxDepth(3)).DecodeObject(hydrate.Context{Source: source}, data)
	if err != nil {
		return nil, err
	}
	styles := make(StyleMap, 0, len(object))
	for _, field := range object {
		value, err := styleValueFromJSON(field.Value, true)
		if err != nil {
			return nil, wrapStyleError(field.Key, "", err)
		}
		styles = append(styles, Entry{Name: field.Key, Value: value})
	}
	return styles, nil
}

func styleValueFromJSON(value any, allowZones bool) (any, error) {
	switch typed := value.(type) {
	case hydrate.Object:
		return statesFromObject(typed)
	case []any:
		if !allowZones {
			return nil, fmt.Errorf("%w: responsive value inside a responsive value", ErrNestedValue)
		}
		zones := make(Zones, len(typed))
		for i, zone := range typed {
			converted, err := styleValueFromJSON(zone, false)
			if err != nil {
				return nil, fmt.Errorf("zone %d: %w", i, err)
			}
			zones[i] = converted
		}
		return zones, nil
	default:
		return typed, nil
	}
}

func statesFromObject(object hydrate.Object) (States, error) {
	states := make(States, 0, len(object))
	for _, field := range object {
		switch field.Value.(type) {
		case hydrate.Object, []any:
			return nil, fmt.Errorf("%w: state %q holds a non-scalar value", ErrNestedValue, field.Key)
		}
		states = append(states, State{Key: field.Key, Value: field.Value})
	}
	return states, nil
}
