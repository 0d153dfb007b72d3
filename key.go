package styles

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CacheKey derives the render cache key for a call. Equal inputs give equal
// keys; entry order is significant because it drives the output order.
func CacheKey(styles StyleMap, zones []Zone, mods Mods) (string, error) {
	var b strings.Builder
	b.WriteString("s{")
	for i, entry := range styles {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(entry.Name))
		b.WriteByte(':')
		if err := writeKeyValue(&b, entry.Value); err != nil {
			return "", wrapStyleError(entry.Name, "", err)
		}
	}
	b.WriteString("}z[")
	for i, zone := range zones {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(zone.Min))
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(zone.Max))
	}
	b.WriteString("]m[")
	for i, name := range mods.Names() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(name))
	}
	b.WriteByte(']')
	return b.String(), nil
}

func writeKeyValue(b *strings.Builder, value any) error {
	kind, err := classify(value)
	if err != nil {
		return err
	}
	switch kind {
	case kindStates:
		b.WriteString("S[")
		for i, state := range asStates(value) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(state.Key))
			b.WriteByte(':')
			if err := writeKeyValue(b, state.Value); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	case kindZones:
		b.WriteString("Z[")
		for i, zone := range asZones(value) {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeKeyValue(b, zone); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	}

	switch typed := value.(type) {
	case nil:
		b.WriteString("z")
	case bool:
		b.WriteString("b:")
		b.WriteString(strconv.FormatBool(typed))
	case string:
		b.WriteString(strconv.Quote(typed))
	case json.Number:
		b.WriteString("n:")
		b.WriteString(typed.String())
	default:
		b.WriteString("n:")
		b.WriteString(ParseStyle(typed))
	}
	return nil
}
