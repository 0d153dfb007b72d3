package styles

import (
	"context"

	"github.com/goliatone/go-styles/pkg/activity"
)

// ActivityChannel is the default channel for engine activity events.
const ActivityChannel = "styles"

// WithActivityHooks attaches activity hooks notified on cache flushes and
// render failures. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *engineConfig) {
		cfg.activityHooks = normalized
	}
}

// ActivityHooks returns a copy of the hooks configured on the engine.
func (e *Engine) ActivityHooks() activity.Hooks {
	if e == nil {
		return nil
	}
	return cloneActivityHooks(e.hooks)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

func (e *Engine) emitFlush(ctx context.Context) error {
	if !e.emitter.Enabled() {
		return nil
	}
	stats := e.cache.Stats()
	return e.emitter.Emit(ctx, activity.BuildCacheFlushedEvent(activity.CacheEventInput{
		Engine:   e.name,
		Capacity: stats.Capacity,
		Flushes:  stats.Flushes,
		Hits:     stats.Hits,
		Misses:   stats.Misses,
	}))
}

func (e *Engine) emitFailure(ctx context.Context, styles StyleMap, zones []Zone, err error) error {
	if !e.emitter.Enabled() {
		return nil
	}
	input := activity.RenderEventInput{
		Engine: e.name,
		Styles: styles.Len(),
		Zones:  len(zones),
		Err:    err,
	}
	if styleErr := asStyleError(err); styleErr != nil {
		input.Style = styleErr.Style
		input.Handler = styleErr.Handler
	}
	return e.emitter.Emit(ctx, activity.BuildRenderFailedEvent(input))
}
