package styles

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hexColorPattern   = regexp.MustCompile(`^[0-9a-fA-F]{3}([0-9a-fA-F]{1}|[0-9a-fA-F]{3}|[0-9a-fA-F]{5})?$`)
	colorTokenPattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_-]*)(?:\.(\d+))?$`)
	varNamePattern    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	multiplierPattern = regexp.MustCompile(`^(-?\d*\.?\d+)(x|r|bw)$`)
)

// multiplierVars maps custom unit suffixes to the custom property they scale.
var multiplierVars = map[string]string{
	"x":  "gap",
	"r":  "radius",
	"bw": "border-width",
}

type parseConfig struct {
	unit string
}

// ParseOption configures ParseStyle.
type ParseOption func(*parseConfig)

// ParseWithUnit appends unit to non-zero numeric values.
func ParseWithUnit(unit string) ParseOption {
	return func(cfg *parseConfig) {
		cfg.unit = unit
	}
}

// ParseStyle serializes a resolved scalar into a CSS value. Strings are
// tokenized and each token rewritten:
//
//	#name       -> var(--name-color)
//	#name.04    -> rgba(var(--name-color-rgb), .04)
//	@name       -> var(--name)
//	@(name, 0)  -> var(--name, 0)
//	2x, 2r, 2bw -> calc(var(--gap) * 2), radius and border-width multiples
//
// Unknown tokens pass through verbatim. Numbers are formatted and get the
// configured unit. No-value scalars and true serialize to "".
func ParseStyle(value any, opts ...ParseOption) string {
	cfg := parseConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	switch typed := value.(type) {
	case nil, bool:
		return ""
	case string:
		return parseString(typed)
	case json.Number:
		if f, err := typed.Float64(); err == nil {
			return formatNumber(f, cfg.unit)
		}
		return typed.String()
	case float64:
		return formatNumber(typed, cfg.unit)
	case float32:
		return formatNumber(float64(typed), cfg.unit)
	case int:
		return formatNumber(float64(typed), cfg.unit)
	case int8:
		return formatNumber(float64(typed), cfg.unit)
	case int16:
		return formatNumber(float64(typed), cfg.unit)
	case int32:
		return formatNumber(float64(typed), cfg.unit)
	case int64:
		return formatNumber(float64(typed), cfg.unit)
	case uint:
		return formatNumber(float64(typed), cfg.unit)
	case uint8:
		return formatNumber(float64(typed), cfg.unit)
	case uint16:
		return formatNumber(float64(typed), cfg.unit)
	case uint32:
		return formatNumber(float64(typed), cfg.unit)
	case uint64:
		return formatNumber(float64(typed), cfg.unit)
	default:
		return fmt.Sprint(typed)
	}
}

func formatNumber(value float64, unit string) string {
	formatted := strconv.FormatFloat(value, 'f', -1, 64)
	if value == 0 || unit == "" {
		return formatted
	}
	return formatted + unit
}

func parseString(value string) string {
	tokens := splitTokens(value)
	if len(tokens) == 0 {
		return ""
	}
	for i, token := range tokens {
		tokens[i] = parseToken(token)
	}
	return strings.Join(tokens, " ")
}

// splitTokens splits on whitespace outside parentheses.
func splitTokens(value string) []string {
	var (
		tokens  []string
		current strings.Builder
		depth   int
	)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range value {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()
	return tokens
}

func parseToken(token string) string {
	trimmed := strings.TrimRight(token, ",")
	suffix := token[len(trimmed):]
	if trimmed == "" {
		return token
	}
	return rewriteToken(trimmed) + suffix
}

func rewriteToken(token string) string {
	switch {
	case strings.HasPrefix(token, "#"):
		return rewriteColor(token)
	case strings.HasPrefix(token, "@(") && strings.HasSuffix(token, ")"):
		return rewriteVarWithFallback(token[2 : len(token)-1], token)
	case strings.HasPrefix(token, "@"):
		name := token[1:]
		if !varNamePattern.MatchString(name) {
			return token
		}
		return "var(--" + name + ")"
	}
	if match := multiplierPattern.FindStringSubmatch(token); match != nil {
		return rewriteMultiplier(match[1], multiplierVars[match[2]])
	}
	return token
}

func rewriteColor(token string) string {
	body := token[1:]
	if hexColorPattern.MatchString(body) {
		return token
	}
	match := colorTokenPattern.FindStringSubmatch(body)
	if match == nil {
		return token
	}
	name, opacity := match[1], match[2]
	if opacity == "" {
		return "var(--" + name + "-color)"
	}
	return "rgba(var(--" + name + "-color-rgb), ." + opacity + ")"
}

func rewriteVarWithFallback(inner, original string) string {
	name, fallback, hasFallback := strings.Cut(inner, ",")
	name = strings.TrimSpace(name)
	if !varNamePattern.MatchString(name) {
		return original
	}
	if !hasFallback {
		return "var(--" + name + ")"
	}
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		return "var(--" + name + ")"
	}
	return "var(--" + name + ", " + parseString(fallback) + ")"
}

func rewriteMultiplier(amount, name string) string {
	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return amount
	}
	switch value {
	case 0:
		return "0"
	case 1:
		return "var(--" + name + ")"
	default:
		return "calc(var(--" + name + ") * " + strconv.FormatFloat(value, 'f', -1, 64) + ")"
	}
}
