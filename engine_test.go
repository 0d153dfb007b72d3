package styles

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-styles/pkg/activity"
)

func TestRenderEndToEndWithoutZones(t *testing.T) {
	css, err := New().Render(StyleMap{
		{Name: "fill", Value: "#dark.04"},
		{Name: "padding", Value: "1x"},
	}, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "outline: none;\n" +
		"background-color: rgba(var(--dark-color-rgb), .04);\n" +
		"padding: var(--gap);\n"
	if css != want {
		t.Fatalf("unexpected css:\n%s", css)
	}
	if strings.Contains(css, "@media") {
		t.Fatalf("expected no media blocks")
	}
}

func TestRenderFollowsStyleMapOrder(t *testing.T) {
	css, err := New().Render(StyleMap{
		{Name: "padding", Value: "1x"},
		{Name: "fill", Value: "#dark"},
	}, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Index(css, "padding:") > strings.Index(css, "background-color:") {
		t.Fatalf("expected padding before fill:\n%s", css)
	}
}

func TestRenderResponsive(t *testing.T) {
	css, err := New().Render(StyleMap{
		{Name: "padding", Value: Zones{"2x", "1x"}},
	}, PointsToZones(1200, 960), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "outline: none;\n" +
		"@media (min-width: 1200px) {\npadding: calc(var(--gap) * 2);\n}\n" +
		"@media (min-width: 960px) and (max-width: 1199px) {\npadding: var(--gap);\n}\n" +
		"@media (max-width: 959px) {\npadding: var(--gap);\n}\n"
	if css != want {
		t.Fatalf("unexpected css:\n%s", css)
	}
}

func TestRenderBroadcastsScalarsToResponsiveHandler(t *testing.T) {
	css, err := New().Render(StyleMap{
		{Name: "display", Value: "grid"},
		{Name: "flow", Value: Zones{"row", "column"}},
	}, PointsToZones(960), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "outline: none;\n" +
		"display: grid;\n" +
		"@media (min-width: 960px) {\ngrid-auto-flow: row;\n}\n" +
		"@media (max-width: 959px) {\ngrid-auto-flow: column;\n}\n"
	if css != want {
		t.Fatalf("unexpected css:\n%s", css)
	}
}

func TestRenderZonesValueWithoutZonesUsesFirstEntry(t *testing.T) {
	css, err := New().Render(StyleMap{{Name: "padding", Value: Zones{"2x", "1x"}}}, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if css != "outline: none;\npadding: calc(var(--gap) * 2);\n" {
		t.Fatalf("unexpected css %q", css)
	}
}

func TestRenderStatesFollowMods(t *testing.T) {
	engine := New()
	fill := States{{Key: "", Value: "#white"}, {Key: "hovered", Value: "#dark"}}

	idle, err := engine.Render(StyleMap{{Name: "fill", Value: fill}}, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(idle, "background-color: var(--white-color);") {
		t.Fatalf("expected default state, got %q", idle)
	}

	hovered, err := engine.Render(StyleMap{{Name: "fill", Value: fill}}, nil, NewMods("hovered"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(hovered, "background-color: var(--dark-color);") {
		t.Fatalf("expected hovered state, got %q", hovered)
	}
}

func TestRenderLastDeclaredStateWins(t *testing.T) {
	css, err := New().Render(StyleMap{{Name: "fill", Value: States{
		{Key: "", Value: "#white"},
		{Key: "hovered", Value: "#first"},
		{Key: "focused", Value: "#second"},
		{Key: "hovered &", Value: "#broken"},
	}}}, nil, NewMods("hovered", "focused"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(css, "var(--second-color)") {
		t.Fatalf("expected last matching key to win, got %q", css)
	}
}

func TestRenderStatesInsideZones(t *testing.T) {
	css, err := New().Render(StyleMap{{Name: "color", Value: Zones{
		States{{Key: "", Value: "#text"}, {Key: "disabled", Value: "#muted"}},
		"#small",
	}}}, PointsToZones(960), NewMods("disabled"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(css, "@media (min-width: 960px) {\ncolor: var(--muted-color);\n}") {
		t.Fatalf("expected state resolved inside zone, got %q", css)
	}
	if !strings.Contains(css, "@media (max-width: 959px) {\ncolor: var(--small-color);\n}") {
		t.Fatalf("expected scalar zone, got %q", css)
	}
}

func TestRenderBoxShadowCombinator(t *testing.T) {
	engine := New()

	none, err := engine.Render(StyleMap{{Name: "fill", Value: true}, {Name: "outline", Value: false}}, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(none, "box-shadow") {
		t.Fatalf("expected no box-shadow without contributors, got %q", none)
	}

	both, err := engine.Render(StyleMap{{Name: "outline", Value: true}, {Name: "shadow", Value: true}}, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Count(both, "\nbox-shadow: ") != 1 {
		t.Fatalf("expected exactly one box-shadow declaration, got %q", both)
	}
	if !strings.Contains(both, "box-shadow: var(--local-outline-box-shadow), var(--local-shadow-box-shadow);\n") {
		t.Fatalf("expected both tokens, got %q", both)
	}
	if !strings.Contains(both, "--local-outline-box-shadow: 0 0 0 var(--outline-width) var(--outline-color);\n") {
		t.Fatalf("expected outline contribution, got %q", both)
	}

	shadowOnly, err := engine.Render(StyleMap{{Name: "shadow", Value: true}}, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(shadowOnly, "box-shadow: var(--local-shadow-box-shadow);\n") {
		t.Fatalf("expected single token, got %q", shadowOnly)
	}
}

type countingHandler struct {
	mu    sync.Mutex
	calls int
}

func (h *countingHandler) LookupStyles() []string { return []string{"fill"} }

func (h *countingHandler) Apply(values Values) Declarations {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	return Decl("background-color", values.CSS("fill"))
}

func TestRenderCacheHitSkipsHandlers(t *testing.T) {
	handler := &countingHandler{}
	registry := NewRegistry()
	if err := registry.Register("fill", handler); err != nil {
		t.Fatalf("register: %v", err)
	}
	engine := New(WithRegistry(registry))
	styles := StyleMap{{Name: "fill", Value: "#dark"}}

	first, err := engine.Render(styles, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := engine.Render(StyleMap{{Name: "fill", Value: "#dark"}}, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical output, got %q and %q", first, second)
	}
	if handler.calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", handler.calls)
	}

	uncached, err := New(WithRegistry(registry)).Render(styles, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if uncached != first {
		t.Fatalf("cached output differs from fresh render")
	}
}

func TestRenderHandlerRunsOncePerCall(t *testing.T) {
	handler := &countingHandler{}
	registry := NewRegistry()
	if err := registry.Register("fill", handler); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("color", handler); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := New(WithRegistry(registry)).Render(StyleMap{
		{Name: "fill", Value: "#dark"},
		{Name: "color", Value: "#light"},
	}, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if handler.calls != 1 {
		t.Fatalf("expected de-duplicated handler, ran %d times", handler.calls)
	}
}

func TestRenderFlushesAfterDefaultCapacity(t *testing.T) {
	engine := New()
	for i := 0; i <= DefaultCacheCapacity; i++ {
		if _, err := engine.Render(StyleMap{{Name: "gap", Value: i}}, nil, nil); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
	}
	stats := engine.Cache().Stats()
	if stats.Flushes != 1 {
		t.Fatalf("expected one flush, got %d", stats.Flushes)
	}
	if stats.Entries != 1 {
		t.Fatalf("expected only the last entry retained, got %d", stats.Entries)
	}
}

func TestRenderNotifiesFlushAndLogger(t *testing.T) {
	capture := &activity.CaptureHook{}
	var events []RenderLogEvent
	engine := New(
		WithName("card"),
		WithCacheCapacity(1),
		WithActivityHooks(activity.Hooks{nil, capture}),
		WithRenderLogger(RenderLoggerFunc(func(event RenderLogEvent) {
			events = append(events, event)
		})),
	)

	ctx := context.Background()
	for _, gap := range []int{1, 2, 2} {
		if _, err := engine.RenderContext(ctx, StyleMap{{Name: "gap", Value: gap}}, nil, nil); err != nil {
			t.Fatalf("render: %v", err)
		}
	}

	if len(capture.Events()) != 1 {
		t.Fatalf("expected one flush event, got %d", len(capture.Events()))
	}
	event := capture.Events()[0]
	if event.Verb != activity.VerbCacheFlushed || event.ObjectID != "card" || event.Channel != ActivityChannel {
		t.Fatalf("unexpected event %+v", event)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 log events, got %d", len(events))
	}
	if events[0].Hit || events[0].Flushed {
		t.Fatalf("expected first render to miss without flush: %+v", events[0])
	}
	if !events[1].Flushed || events[1].Engine != "card" {
		t.Fatalf("expected second render to flush: %+v", events[1])
	}
	if !events[2].Hit {
		t.Fatalf("expected third render to hit: %+v", events[2])
	}
	if len(engine.ActivityHooks()) != 1 {
		t.Fatalf("expected nil hooks filtered")
	}
}

func TestRenderErrors(t *testing.T) {
	capture := &activity.CaptureHook{}
	engine := New(WithActivityHooks(activity.Hooks{capture}))

	_, err := engine.Render(StyleMap{{Name: "padding", Value: Zones{Zones{"1x"}}}}, PointsToZones(960), nil)
	if !errors.Is(err, ErrNestedValue) {
		t.Fatalf("expected ErrNestedValue, got %v", err)
	}
	if styleErr := asStyleError(err); styleErr == nil || styleErr.Style != "padding" {
		t.Fatalf("expected StyleError for padding, got %v", err)
	}

	_, err = engine.Render(StyleMap{{Name: "fill", Value: map[string]any{"hovered": "#dark"}}}, nil, nil)
	if !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue, got %v", err)
	}

	_, err = engine.Render(StyleMap{{Name: "fill", Value: States{{Key: "", Value: Zones{"#dark"}}}}}, nil, nil)
	if !errors.Is(err, ErrNestedValue) {
		t.Fatalf("expected ErrNestedValue for zones inside states, got %v", err)
	}

	if len(capture.Events()) != 3 || capture.Events()[0].Verb != activity.VerbRenderFailed {
		t.Fatalf("expected failure events, got %+v", capture.Events())
	}
	if capture.Events()[0].Metadata["style"] != "padding" {
		t.Fatalf("expected style metadata, got %+v", capture.Events()[0].Metadata)
	}
}

func TestRenderDeterministicAcrossEngines(t *testing.T) {
	styles := StyleMap{
		{Name: "fill", Value: States{{Key: "", Value: "#white"}, {Key: "pressed", Value: "#dark.1"}}},
		{Name: "radius", Value: "round"},
		{Name: "border", Value: "#border"},
		{Name: "gap", Value: Zones{8, 4}},
		{Name: "opacity", Value: 0.5},
	}
	zones := PointsToZones(960)
	mods := NewMods("pressed")

	native, err := New().Render(styles, zones, mods)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, engine := range []string{"expr", "cel"} {
		matcher, err := NewMatcher(engine)
		if err != nil {
			t.Fatalf("matcher: %v", err)
		}
		got, err := New(WithModMatcher(matcher)).Render(styles, zones, mods)
		if err != nil {
			t.Fatalf("%s render: %v", engine, err)
		}
		if got != native {
			t.Fatalf("%s output differs:\n%s\nvs\n%s", engine, got, native)
		}
	}

	for _, want := range []string{
		"background-color: rgba(var(--dark-color-rgb), .1);\n",
		"border-radius: 9999rem;\n",
		"border: var(--border-width) solid var(--border-color);\n",
		"opacity: 0.5;\n",
		"@media (min-width: 960px) {\ngap: 8px;\n}\n",
		"@media (max-width: 959px) {\ngap: 4px;\n}\n",
	} {
		if !strings.Contains(native, want) {
			t.Fatalf("expected %q in:\n%s", want, native)
		}
	}
}

func TestRenderStylesUsesDefaultEngine(t *testing.T) {
	css, err := RenderStyles(StyleMap{{Name: "color", Value: true}}, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if css != "outline: none;\ncolor: var(--text-color);\n" {
		t.Fatalf("unexpected css %q", css)
	}
	if DefaultEngine() != DefaultEngine() {
		t.Fatalf("expected a single default engine")
	}
}

func TestDefaultsContextPropsMergesLikeSpread(t *testing.T) {
	merged := DefaultsContextProps(
		StyleMap{{Name: "fill", Value: "#white"}, {Name: "padding", Value: "1x"}},
		StyleMap{{Name: "fill", Value: "#dark"}},
		StyleMap{{Name: "radius", Value: true}, {Name: "padding", Value: "2x"}},
	)
	want := StyleMap{
		{Name: "fill", Value: "#dark"},
		{Name: "padding", Value: "2x"},
		{Name: "radius", Value: true},
	}
	if len(merged) != len(want) {
		t.Fatalf("unexpected merge %+v", merged)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Fatalf("entry %d: want %+v got %+v", i, want[i], merged[i])
		}
	}
}
