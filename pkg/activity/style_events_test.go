package activity

import (
	"context"
	"errors"
	"testing"
)

func TestBuildCacheFlushedEventCarriesCounters(t *testing.T) {
	meta := map[string]any{"custom": "value"}
	event := BuildCacheFlushedEvent(CacheEventInput{
		Engine:   " theme ",
		Capacity: 1000,
		Flushes:  2,
		Hits:     10,
		Misses:   1001,
		Metadata: meta,
	})

	if event.Verb != VerbCacheFlushed || event.ObjectType != ObjectTypeCache {
		t.Fatalf("unexpected event identity: %+v", event)
	}
	if event.ObjectID != "theme" {
		t.Fatalf("expected trimmed engine object id, got %q", event.ObjectID)
	}
	if event.Metadata["capacity"] != 1000 || event.Metadata["flushes"] != uint64(2) {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if event.Metadata["custom"] != "value" {
		t.Fatalf("expected custom metadata preserved: %+v", event.Metadata)
	}
	event.Metadata["custom"] = "changed"
	if meta["custom"] != "value" {
		t.Fatalf("expected input metadata untouched")
	}
}

func TestBuildCacheFlushedEventFallsBackToObjectType(t *testing.T) {
	event := BuildCacheFlushedEvent(CacheEventInput{})
	if event.ObjectID != ObjectTypeCache {
		t.Fatalf("expected fallback object id %q, got %q", ObjectTypeCache, event.ObjectID)
	}
}

func TestBuildRenderFailedEventIncludesError(t *testing.T) {
	event := BuildRenderFailedEvent(RenderEventInput{
		Engine:  "default",
		Style:   "fill",
		Handler: "fill",
		Styles:  2,
		Zones:   3,
		Err:     errors.New("boom"),
	})
	if event.Verb != VerbRenderFailed || event.ObjectType != ObjectTypeRender {
		t.Fatalf("unexpected event identity: %+v", event)
	}
	if event.Metadata["error"] != "boom" || event.Metadata["style"] != "fill" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if event.Metadata["styles"] != 2 || event.Metadata["zones"] != 3 {
		t.Fatalf("unexpected counts: %+v", event.Metadata)
	}
}

func TestStyleEventsWorkWithEmitter(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})

	if err := emitter.Emit(context.Background(), BuildCacheFlushedEvent(CacheEventInput{Engine: "default"})); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events()) != 1 {
		t.Fatalf("expected one event, got %d", len(capture.Events()))
	}
	if capture.Events()[0].Channel != "styles" {
		t.Fatalf("expected default channel styles, got %q", capture.Events()[0].Channel)
	}
}
