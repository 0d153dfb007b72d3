package styles

import (
	"sort"
	"strconv"
	"strings"
)

// Zone is a breakpoint range. A zero bound is open. The zone with both bounds
// open is the base zone and renders without a media query.
type Zone struct {
	Min int `json:"min,omitempty" yaml:"min,omitempty"`
	Max int `json:"max,omitempty" yaml:"max,omitempty"`
}

// IsBase reports whether the zone applies at every width.
func (z Zone) IsBase() bool {
	return z.Min <= 0 && z.Max <= 0
}

// Query renders the media condition for the zone.
func (z Zone) Query() string {
	parts := make([]string, 0, 2)
	if z.Min > 0 {
		parts = append(parts, "(min-width: "+strconv.Itoa(z.Min)+"px)")
	}
	if z.Max > 0 {
		parts = append(parts, "(max-width: "+strconv.Itoa(z.Max)+"px)")
	}
	return strings.Join(parts, " and ")
}

// PointsToZones turns breakpoints into zones ordered from the widest screen
// down. Points are sorted descending and non-positive points are dropped, so
// 1200 and 960 yield min 1200, 960 to 1199 and max 959. No points yield a
// single base zone.
func PointsToZones(points ...int) []Zone {
	sorted := make([]int, 0, len(points))
	seen := make(map[int]struct{}, len(points))
	for _, point := range points {
		if point <= 0 {
			continue
		}
		if _, ok := seen[point]; ok {
			continue
		}
		seen[point] = struct{}{}
		sorted = append(sorted, point)
	}
	if len(sorted) == 0 {
		return []Zone{{}}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	zones := make([]Zone, 0, len(sorted)+1)
	for i, point := range sorted {
		zone := Zone{Min: point}
		if i > 0 {
			zone.Max = sorted[i-1] - 1
		}
		zones = append(zones, zone)
	}
	return append(zones, Zone{Max: sorted[len(sorted)-1] - 1})
}

// NormalizeZones stretches or truncates values to exactly count entries. A
// shorter array repeats its last entry; an empty array yields count nils.
func NormalizeZones(values Zones, count int) []any {
	if count <= 0 {
		return nil
	}
	out := make([]any, count)
	if len(values) == 0 {
		return out
	}
	for i := range out {
		if i < len(values) {
			out[i] = values[i]
			continue
		}
		out[i] = values[len(values)-1]
	}
	return out
}

// WrapMedia wraps each zone's CSS fragment in the zone's media query, in the
// order zones are supplied. Base zones emit their fragment unwrapped and
// empty fragments emit nothing.
func WrapMedia(perZone []string, zones []Zone) string {
	var b strings.Builder
	for i, css := range perZone {
		if i >= len(zones) {
			break
		}
		if strings.TrimSpace(css) == "" {
			continue
		}
		zone := zones[i]
		if zone.IsBase() {
			b.WriteString(css)
			continue
		}
		b.WriteString("@media ")
		b.WriteString(zone.Query())
		b.WriteString(" {\n")
		b.WriteString(css)
		b.WriteString("}\n")
	}
	return b.String()
}
