package styles

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-styles/pkg/activity"
)

// DefaultEngineName labels engines built without WithName.
const DefaultEngineName = "default"

// outlineReset prefixes every rendered block.
const outlineReset = "outline: none;\n"

// Engine compiles style maps into CSS through a handler registry and memoizes
// the result in a render cache.
type Engine struct {
	name     string
	registry *Registry
	cache    *RenderCache
	matcher  ModMatcher
	logger   RenderLogger
	hooks    activity.Hooks
	emitter  *activity.Emitter
}

// Compiled is the output of a single compile pass before media wrapping.
type Compiled struct {
	// Raw holds declarations of handlers that saw no responsive value.
	Raw string
	// PerZone holds one fragment per zone for responsive handlers.
	PerZone []string
}

// New constructs an Engine. Without options it uses DefaultRegistry, a cache
// of DefaultCacheCapacity and the native mod matcher.
func New(opts ...Option) *Engine {
	cfg := applyOptions(opts)

	name := cfg.name
	if name == "" {
		name = DefaultEngineName
	}
	registry := cfg.registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	cache := cfg.cache
	if cache == nil {
		cache = NewRenderCache(cfg.cacheCapacity)
	}
	matcher := cfg.matcher
	if matcher == nil {
		var matcherOpts []MatcherOption
		if cfg.programCache != nil {
			matcherOpts = append(matcherOpts, MatcherWithProgramCache(cfg.programCache))
		}
		matcher = NewNativeMatcher(matcherOpts...)
	}
	logger := cfg.logger
	if logger == nil {
		logger = noopRenderLogger{}
	}

	return &Engine{
		name:     name,
		registry: registry,
		cache:    cache,
		matcher:  matcher,
		logger:   logger,
		hooks:    cfg.activityHooks,
		emitter:  activity.NewEmitter(cfg.activityHooks, activity.Config{Enabled: true, Channel: ActivityChannel}),
	}
}

// Name returns the engine label.
func (e *Engine) Name() string {
	return e.name
}

// Registry returns the handler registry used for dispatch.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Cache returns the render cache owned by the engine.
func (e *Engine) Cache() *RenderCache {
	return e.cache
}

// Matcher returns the matcher used to resolve state keys.
func (e *Engine) Matcher() ModMatcher {
	return e.matcher
}

// Render compiles styles for the zones and active mods, reusing the cached
// CSS when the same inputs were rendered before.
func (e *Engine) Render(styles StyleMap, zones []Zone, mods Mods) (string, error) {
	return e.RenderContext(context.Background(), styles, zones, mods)
}

// RenderContext is Render with a context forwarded to activity hooks.
func (e *Engine) RenderContext(ctx context.Context, styles StyleMap, zones []Zone, mods Mods) (string, error) {
	start := time.Now()
	event := RenderLogEvent{
		Engine: e.name,
		Styles: styles.Len(),
		Zones:  len(zones),
	}
	defer func() {
		event.Duration = time.Since(start)
		event.Entries = e.cache.Len()
		e.logger.LogRender(event)
	}()

	key, err := CacheKey(styles, zones, mods)
	if err != nil {
		event.Err = err
		event.ActivityErr = e.emitFailure(ctx, styles, zones, event.Err)
		return "", event.Err
	}
	if css, ok := e.cache.Get(key); ok {
		event.Hit = true
		return outlineReset + css, nil
	}

	compiled, err := e.Compile(styles, zones, mods)
	if err != nil {
		event.Err = err
		event.ActivityErr = e.emitFailure(ctx, styles, zones, err)
		return "", err
	}
	css := compiled.Raw
	if len(zones) > 0 {
		css += WrapMedia(compiled.PerZone, zones)
	}
	if e.cache.Store(key, css) {
		event.Flushed = true
		event.ActivityErr = e.emitFlush(ctx)
	}
	return outlineReset + css, nil
}

type handlerJob struct {
	reg        *registration
	lookup     []string
	values     map[string]any
	responsive bool
}

// Compile runs every handler reachable from styles once. Handlers that read a
// responsive value run once per zone; the rest run once with state values
// resolved against mods.
func (e *Engine) Compile(styles StyleMap, zones []Zone, mods Mods) (Compiled, error) {
	styles = styles.compact()
	for _, entry := range styles {
		if err := validateValue(entry.Value); err != nil {
			return Compiled{}, wrapStyleError(entry.Name, "", err)
		}
	}

	jobs := e.queue(styles, len(zones))
	compiled := Compiled{}
	if len(zones) > 0 {
		compiled.PerZone = make([]string, len(zones))
	}

	var raw strings.Builder
	for _, job := range jobs {
		if !job.responsive {
			values, err := e.resolveValues(job, mods, func(_ string, value any) any {
				if isResponsive(value) {
					return firstZone(value)
				}
				return value
			})
			if err != nil {
				return Compiled{}, err
			}
			raw.WriteString(job.reg.handler.Apply(values).String())
			continue
		}

		normalized := make(map[string][]any, len(job.lookup))
		for _, style := range job.lookup {
			value, ok := job.values[style]
			if !ok {
				continue
			}
			if isResponsive(value) {
				normalized[style] = NormalizeZones(asZones(value), len(zones))
				continue
			}
			broadcast := make([]any, len(zones))
			for i := range broadcast {
				broadcast[i] = value
			}
			normalized[style] = broadcast
		}
		for i := range zones {
			values, err := e.resolveValues(job, mods, func(style string, _ any) any {
				return normalized[style][i]
			})
			if err != nil {
				return Compiled{}, err
			}
			compiled.PerZone[i] += job.reg.handler.Apply(values).String()
		}
	}
	compiled.Raw = raw.String()
	return compiled, nil
}

// queue collects handlers in StyleMap order, each registration once.
func (e *Engine) queue(styles StyleMap, zoneCount int) []handlerJob {
	seen := map[*registration]struct{}{}
	var jobs []handlerJob
	for _, entry := range styles {
		for _, reg := range e.registry.lookup(entry.Name) {
			if _, ok := seen[reg]; ok {
				continue
			}
			seen[reg] = struct{}{}

			job := handlerJob{
				reg:    reg,
				lookup: reg.handler.LookupStyles(),
				values: map[string]any{},
			}
			for _, style := range job.lookup {
				value, ok := styles.Get(style)
				if !ok {
					continue
				}
				job.values[style] = value
				if zoneCount > 0 && isResponsive(value) {
					job.responsive = true
				}
			}
			jobs = append(jobs, job)
		}
	}
	return jobs
}

func (e *Engine) resolveValues(job handlerJob, mods Mods, pick func(style string, value any) any) (Values, error) {
	values := make(Values, len(job.values))
	for style, value := range job.values {
		resolved, err := Resolve(pick(style, value), mods, e.matcher)
		if err != nil {
			return nil, wrapStyleError(style, job.reg.name, wrapMatcherError(matcherEngineName(e.matcher), err))
		}
		values[style] = resolved
	}
	return values, nil
}

func firstZone(value any) any {
	zones := asZones(value)
	if len(zones) == 0 {
		return nil
	}
	return zones[0]
}

var (
	defaultEngineOnce sync.Once
	defaultEngine     *Engine
)

// DefaultEngine returns the process-wide engine used by RenderStyles.
func DefaultEngine() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// RenderStyles renders styles with the default engine.
func RenderStyles(styles StyleMap, zones []Zone, mods Mods) (string, error) {
	return DefaultEngine().Render(styles, zones, mods)
}
