package activity

import (
	"maps"
	"strings"
	"time"
)

const (
	// VerbCacheFlushed is emitted when a render cache drops every entry.
	VerbCacheFlushed = "styles.cache.flushed"
	// VerbRenderFailed is emitted when a style map cannot be compiled.
	VerbRenderFailed = "styles.render.failed"

	// ObjectTypeCache identifies render cache events.
	ObjectTypeCache = "styles.cache"
	// ObjectTypeRender identifies render events.
	ObjectTypeRender = "styles.render"
)

// CacheEventInput describes a render cache lifecycle change.
type CacheEventInput struct {
	Engine     string
	Capacity   int
	Flushes    uint64
	Hits       uint64
	Misses     uint64
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildCacheFlushedEvent constructs the event recorded when a cache overflows.
func BuildCacheFlushedEvent(input CacheEventInput) Event {
	metadata := maps.Clone(input.Metadata)
	metadata = ensureMetadata(metadata)
	metadata["capacity"] = input.Capacity
	metadata["flushes"] = input.Flushes
	metadata["hits"] = input.Hits
	metadata["misses"] = input.Misses

	return Event{
		Verb:       VerbCacheFlushed,
		ObjectType: ObjectTypeCache,
		ObjectID:   objectID(input.Engine, ObjectTypeCache),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// RenderEventInput describes a single render call.
type RenderEventInput struct {
	Engine     string
	Style      string
	Handler    string
	Styles     int
	Zones      int
	Err        error
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildRenderFailedEvent constructs the event recorded when a render errors.
func BuildRenderFailedEvent(input RenderEventInput) Event {
	metadata := maps.Clone(input.Metadata)
	metadata = ensureMetadata(metadata)
	metadata["styles"] = input.Styles
	metadata["zones"] = input.Zones
	if input.Style != "" {
		metadata["style"] = input.Style
	}
	if input.Handler != "" {
		metadata["handler"] = input.Handler
	}
	if input.Err != nil {
		metadata["error"] = input.Err.Error()
	}

	return Event{
		Verb:       VerbRenderFailed,
		ObjectType: ObjectTypeRender,
		ObjectID:   objectID(input.Engine, ObjectTypeRender),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func objectID(engine, fallback string) string {
	if id := strings.TrimSpace(engine); id != "" {
		return id
	}
	return fallback
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
