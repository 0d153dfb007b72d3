// Package config loads engine settings and named style presets from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	styles "github.com/goliatone/go-styles"
)

// Config is the YAML document describing an engine and its presets.
type Config struct {
	Name        string            `yaml:"name" validate:"omitempty,max=64"`
	Cache       CacheConfig       `yaml:"cache"`
	Breakpoints []int             `yaml:"breakpoints" validate:"omitempty,descending,dive,gt=0"`
	Mods        ModsConfig        `yaml:"mods"`
	Logging     LoggingConfig     `yaml:"logging"`
	Presets     map[string]Preset `yaml:"presets"`
}

// CacheConfig sizes the render cache. Zero selects the default capacity.
type CacheConfig struct {
	Capacity int `yaml:"capacity" validate:"gte=0"`
}

// ModsConfig selects the mod matcher and the mods active by default.
type ModsConfig struct {
	Engine string   `yaml:"engine" validate:"omitempty,oneof=native expr cel js"`
	Active []string `yaml:"active" validate:"dive,required"`
}

// LoggingConfig mirrors the logger options of pkg/logging.
type LoggingConfig struct {
	Level         string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	HumanReadable bool   `yaml:"human_readable"`
}

// Preset is a named style map. Key order in the YAML mapping is kept.
type Preset struct {
	Styles styles.StyleMap
}

var lineNumberPattern = regexp.MustCompile(`line (\d+)`)

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := parse(path, data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates an in-memory YAML document.
func Parse(data []byte) (*Config, error) {
	return parse("", data)
}

func parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Line: extractLine(err), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func extractLine(err error) int {
	var typeErr *yaml.TypeError
	msg := err.Error()
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		msg = typeErr.Errors[0]
	}
	match := lineNumberPattern.FindStringSubmatch(msg)
	if match == nil {
		return 0
	}
	line, convErr := strconv.Atoi(match[1])
	if convErr != nil {
		return 0
	}
	return line
}

// Zones converts the breakpoints into render zones. No breakpoints yield no
// zones.
func (c *Config) Zones() []styles.Zone {
	if len(c.Breakpoints) == 0 {
		return nil
	}
	return styles.PointsToZones(c.Breakpoints...)
}

// ActiveMods returns the mods enabled by default.
func (c *Config) ActiveMods() styles.Mods {
	return styles.NewMods(c.Mods.Active...)
}

// PresetNames lists preset names sorted.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the style map stored under name.
func (c *Config) Preset(name string) (styles.StyleMap, bool) {
	preset, ok := c.Presets[name]
	if !ok {
		return nil, false
	}
	return append(styles.StyleMap(nil), preset.Styles...), true
}

// EngineOptions translates the config into engine options. Matchers share a
// program cache so compiled mod expressions are reused across renders.
func (c *Config) EngineOptions() ([]styles.Option, error) {
	programs := styles.NewMemoryProgramCache()
	matcher, err := styles.NewMatcher(c.Mods.Engine, styles.MatcherWithProgramCache(programs))
	if err != nil {
		return nil, &ValidationError{Field: "Config.Mods.Engine", Message: err.Error(), Err: err}
	}
	opts := []styles.Option{
		styles.WithCacheCapacity(c.Cache.Capacity),
		styles.WithModMatcher(matcher),
	}
	if c.Name != "" {
		opts = append(opts, styles.WithName(c.Name))
	}
	return opts, nil
}

// NewEngine builds an engine from the config. Extra options apply last.
func (c *Config) NewEngine(extra ...styles.Option) (*styles.Engine, error) {
	opts, err := c.EngineOptions()
	if err != nil {
		return nil, err
	}
	return styles.New(append(opts, extra...)...), nil
}

// UnmarshalYAML decodes a mapping of style names to values. Mapping values
// become States, sequences become Zones and scalars keep their YAML type.
func (p *Preset) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: preset must be a mapping", node.Line)
	}
	out := make(styles.StyleMap, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		value, err := styleValue(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("line %d: style %q: %w", node.Content[i+1].Line, name, err)
		}
		out = append(out, styles.Entry{Name: name, Value: value})
	}
	p.Styles = out
	return nil
}

// MarshalYAML writes the preset back as an ordered mapping.
func (p Preset) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range p.Styles {
		value := &yaml.Node{}
		if err := value.Encode(yamlValue(entry.Value)); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Name}, value)
	}
	return node, nil
}

func styleValue(node *yaml.Node) (any, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.ScalarNode:
		return scalarValue(node)
	case yaml.MappingNode:
		return statesValue(node)
	case yaml.SequenceNode:
		zones := make(styles.Zones, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolveAlias(item)
			switch item.Kind {
			case yaml.ScalarNode:
				value, err := scalarValue(item)
				if err != nil {
					return nil, err
				}
				zones = append(zones, value)
			case yaml.MappingNode:
				states, err := statesValue(item)
				if err != nil {
					return nil, err
				}
				zones = append(zones, states)
			default:
				return nil, styles.ErrNestedValue
			}
		}
		return zones, nil
	default:
		return nil, styles.ErrUnsupportedValue
	}
}

func statesValue(node *yaml.Node) (styles.States, error) {
	states := make(styles.States, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		value := resolveAlias(node.Content[i+1])
		if value.Kind != yaml.ScalarNode {
			return nil, styles.ErrNestedValue
		}
		scalar, err := scalarValue(value)
		if err != nil {
			return nil, err
		}
		states = append(states, styles.State{Key: node.Content[i].Value, Value: scalar})
	}
	return states, nil
}

func scalarValue(node *yaml.Node) (any, error) {
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

type orderedStates styles.States

func (s orderedStates) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, state := range s {
		value := &yaml.Node{}
		if err := value.Encode(state.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: state.Key}, value)
	}
	return node, nil
}

func yamlValue(value any) any {
	switch typed := value.(type) {
	case styles.States:
		return orderedStates(typed)
	case styles.Zones:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = yamlValue(item)
		}
		return out
	default:
		return value
	}
}
