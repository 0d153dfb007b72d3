package styles

import (
	"encoding/json"

	"github.com/goliatone/go-styles/internal/hydrate"
)

// Trace captures which layers define a style prop, strongest first.
type Trace struct {
	Style  string       `json:"style"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how one layer contributed to a traced style.
type Provenance struct {
	Layer    string `json:"layer"`
	Label    string `json:"label,omitempty"`
	Priority int    `json:"priority"`
	Value    any    `json:"value,omitempty"`
	Found    bool   `json:"found"`
}

// Winner returns the strongest layer defining the style.
func (t Trace) Winner() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}

// Trace reports every layer's value for style, strongest first.
func (s *Stack) Trace(style string) Trace {
	trace := Trace{Style: style}
	if s == nil {
		return trace
	}
	for _, layer := range s.layers {
		value, found := layer.Styles.Get(style)
		trace.Layers = append(trace.Layers, Provenance{
			Layer:    layer.Name,
			Label:    layer.Label,
			Priority: layer.Priority,
			Value:    value,
			Found:    found,
		})
	}
	return trace
}

// ToJSON serialises the trace for logging.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON decodes a payload produced by ToJSON. State values keep their
// key order.
func TraceFromJSON(payload []byte) (Trace, error) {
	var raw struct {
		Style  string `json:"style"`
		Layers []struct {
			Layer    string          `json:"layer"`
			Label    string          `json:"label"`
			Priority int             `json:"priority"`
			Value    json.RawMessage `json:"value"`
			Found    bool            `json:"found"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Trace{}, err
	}

	trace := Trace{Style: raw.Style}
	decoder := hydrate.NewDecoder()
	for _, layer := range raw.Layers {
		provenance := Provenance{
			Layer:    layer.Layer,
			Label:    layer.Label,
			Priority: layer.Priority,
			Found:    layer.Found,
		}
		if len(layer.Value) > 0 {
			decoded, err := decoder.Decode(hydrate.Context{Source: layer.Layer}, layer.Value)
			if err != nil {
				return Trace{}, err
			}
			value, err := styleValueFromJSON(decoded, true)
			if err != nil {
				return Trace{}, wrapStyleError(raw.Style, "", err)
			}
			provenance.Value = value
		}
		trace.Layers = append(trace.Layers, provenance)
	}
	return trace, nil
}
