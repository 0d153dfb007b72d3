package styles

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type valueKind int

const (
	kindScalar valueKind = iota
	kindStates
	kindZones
)

// classify reports the shape of a raw style value.
func classify(value any) (valueKind, error) {
	switch value.(type) {
	case nil, string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return kindScalar, nil
	case States, []State:
		return kindStates, nil
	case Zones, []any, []string, []int, []float64, []bool:
		return kindZones, nil
	default:
		return kindScalar, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

func asStates(value any) States {
	switch typed := value.(type) {
	case States:
		return typed
	case []State:
		return States(typed)
	default:
		return nil
	}
}

// asZones converts any accepted responsive slice into Zones.
func asZones(value any) Zones {
	switch typed := value.(type) {
	case Zones:
		return typed
	case []any:
		return Zones(typed)
	case []string:
		return convertZones(typed)
	case []int:
		return convertZones(typed)
	case []float64:
		return convertZones(typed)
	case []bool:
		return convertZones(typed)
	default:
		return nil
	}
}

func convertZones[T any](values []T) Zones {
	zones := make(Zones, len(values))
	for i, value := range values {
		zones[i] = value
	}
	return zones
}

// isResponsive reports whether value is a Zones array.
func isResponsive(value any) bool {
	kind, err := classify(value)
	return err == nil && kind == kindZones
}

// isNoValue reports whether a resolved scalar yields no declaration.
func isNoValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case bool:
		return !typed
	case string:
		return strings.TrimSpace(typed) == ""
	default:
		return false
	}
}

// validateValue checks value against the supported shapes: scalars, States of
// scalars, and Zones of scalars or States of scalars.
func validateValue(value any) error {
	kind, err := classify(value)
	if err != nil {
		return err
	}
	switch kind {
	case kindStates:
		return validateStates(asStates(value))
	case kindZones:
		for i, zone := range asZones(value) {
			zoneKind, err := classify(zone)
			if err != nil {
				return fmt.Errorf("zone %d: %w", i, err)
			}
			switch zoneKind {
			case kindZones:
				return fmt.Errorf("%w: zone %d holds a responsive value", ErrNestedValue, i)
			case kindStates:
				if err := validateStates(asStates(zone)); err != nil {
					return fmt.Errorf("zone %d: %w", i, err)
				}
			}
		}
	}
	return nil
}

func validateStates(states States) error {
	for _, state := range states {
		kind, err := classify(state.Value)
		if err != nil {
			return fmt.Errorf("state %q: %w", state.Key, err)
		}
		if kind != kindScalar {
			return fmt.Errorf("%w: state %q holds a non-scalar value", ErrNestedValue, state.Key)
		}
	}
	return nil
}

// Resolve selects the scalar that applies for the active mods. States are
// resolved by evaluating every key in declared order: the empty key is the
// default and the last matching non-default key wins. Keys the matcher rejects
// as malformed never match. Zones must be normalized before resolution.
func Resolve(value any, mods Mods, matcher ModMatcher) (any, error) {
	kind, err := classify(value)
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindZones:
		return nil, fmt.Errorf("%w: responsive value must be normalized per zone", ErrNestedValue)
	case kindStates:
		return resolveStates(asStates(value), mods, matcher)
	default:
		return value, nil
	}
}

func resolveStates(states States, mods Mods, matcher ModMatcher) (any, error) {
	if matcher == nil {
		matcher = defaultMatcher
	}
	var (
		fallback any
		chosen   any
		matched  bool
	)
	for _, state := range states {
		kind, err := classify(state.Value)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", state.Key, err)
		}
		if kind != kindScalar {
			return nil, fmt.Errorf("%w: state %q holds a non-scalar value", ErrNestedValue, state.Key)
		}
		if strings.TrimSpace(state.Key) == "" {
			fallback = state.Value
			continue
		}
		ok, err := matcher.Match(state.Key, mods)
		if err != nil {
			if errors.Is(err, ErrInvalidModExpr) {
				continue
			}
			return nil, err
		}
		if ok {
			chosen = state.Value
			matched = true
		}
	}
	if matched {
		return chosen, nil
	}
	return fallback, nil
}

var defaultMatcher = NewNativeMatcher()

// Validate checks every value in the map against the supported shapes.
func (m StyleMap) Validate() error {
	for _, entry := range m {
		if strings.TrimSpace(entry.Name) == "" {
			return ErrStyleNameRequired
		}
		if err := validateValue(entry.Value); err != nil {
			return wrapStyleError(entry.Name, "", err)
		}
	}
	return nil
}
