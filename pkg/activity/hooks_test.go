package activity

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNormalizeEventTrimsAndCopiesMetadata(t *testing.T) {
	meta := map[string]any{"engine": "theme"}
	evt := Event{
		Verb:       " styles.cache.flushed ",
		ActorID:    " actor ",
		TenantID:   " tenant ",
		ObjectType: " styles.cache ",
		ObjectID:   " theme ",
		Channel:    " styles ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != VerbCacheFlushed || got.ObjectType != ObjectTypeCache || got.ObjectID != "theme" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.TenantID != "tenant" || got.Channel != "styles" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["engine"] = "changed"
	if meta["engine"] != "theme" {
		t.Fatalf("expected caller metadata untouched: %+v", meta)
	}
}

func TestHooksNotifyDropsIncompleteEvents(t *testing.T) {
	capture := &CaptureHook{}
	if err := (Hooks{capture}).Notify(context.Background(), Event{Verb: VerbRenderFailed}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events()))
	}
}

func TestHooksNotifyFansOutAndJoinsErrors(t *testing.T) {
	capture := &CaptureHook{}
	errFirst := errors.New("first")
	errSecond := errors.New("second")
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		HookFunc(func(context.Context, Event) error { return errFirst }),
		nil,
		capture,
		HookFunc(func(context.Context, Event) error { return errSecond }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbRenderFailed, ObjectType: ObjectTypeRender, ObjectID: "default"})
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected a non-nil context")
	}
	if len(capture.Events()) != 1 {
		t.Fatalf("expected hooks after a failure to still run, got %d events", len(capture.Events()))
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}
	flush := Event{Verb: VerbCacheFlushed, ObjectType: ObjectTypeCache, ObjectID: "default"}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), flush); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	if NewEmitter(nil, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true})
	if err := enabled.Emit(context.Background(), flush); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Events()
	if len(events) != 1 || events[0].Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %+v", events)
	}
}

func TestEmitterPreservesExplicitChannelAndTime(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "theme"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbCacheFlushed,
		ObjectType: ObjectTypeCache,
		ObjectID:   "default",
		Channel:    "custom",
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := capture.Events()[0]
	if got.Channel != "custom" || !got.OccurredAt.Equal(at) {
		t.Fatalf("expected explicit channel and time preserved, got %+v", got)
	}
}

func TestEmitterFiltersVerbsAndMergesMetadata(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{
		Enabled:  true,
		Verbs:    []string{VerbRenderFailed},
		Metadata: map[string]any{"service": "web", "engine": "fallback"},
	})

	_ = emitter.Emit(context.Background(), Event{Verb: VerbCacheFlushed, ObjectType: ObjectTypeCache, ObjectID: "x"})
	_ = emitter.Emit(context.Background(), Event{
		Verb:       VerbRenderFailed,
		ObjectType: ObjectTypeRender,
		ObjectID:   "x",
		Metadata:   map[string]any{"engine": "theme"},
	})

	if got := capture.Verbs(); !reflect.DeepEqual(got, []string{VerbRenderFailed}) {
		t.Fatalf("expected only render failures, got %v", got)
	}
	meta := capture.Events()[0].Metadata
	if meta["service"] != "web" || meta["engine"] != "theme" {
		t.Fatalf("expected defaults under event metadata, got %+v", meta)
	}
	if !emitter.Allows(VerbRenderFailed) || emitter.Allows(VerbCacheFlushed) {
		t.Fatalf("unexpected verb filter")
	}
}

func TestCaptureHookReset(t *testing.T) {
	capture := &CaptureHook{Err: errors.New("stored")}
	err := capture.Notify(context.Background(), Event{Verb: VerbCacheFlushed})
	if err == nil || err.Error() != "stored" {
		t.Fatalf("expected configured error, got %v", err)
	}
	capture.Reset()
	if len(capture.Events()) != 0 {
		t.Fatalf("expected reset to clear events")
	}
}
