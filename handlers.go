package styles

import "strings"

var (
	fillHandler = NewHandler("fill", func(v Values) Declarations {
		if !v.Has("fill") {
			return nil
		}
		if v.IsTrue("fill") {
			return Decl("background-color", "var(--fill-color)")
		}
		return Decl("background-color", v.CSS("fill"))
	}, "fill")

	colorHandler = NewHandler("color", func(v Values) Declarations {
		if !v.Has("color") {
			return nil
		}
		if v.IsTrue("color") {
			return Decl("color", "var(--text-color)")
		}
		return Decl("color", v.CSS("color"))
	}, "color")

	paddingHandler = spacingHandler("padding", "padding")
	marginHandler  = spacingHandler("margin", "margin")
	gapHandler     = spacingHandler("gap", "gap")

	radiusHandler = NewHandler("radius", func(v Values) Declarations {
		if !v.Has("radius") {
			return nil
		}
		if v.IsTrue("radius") {
			return Decl("border-radius", "var(--radius)")
		}
		if raw, ok := v.Raw("radius").(string); ok && strings.TrimSpace(raw) == "round" {
			return Decl("border-radius", "9999rem")
		}
		return Decl("border-radius", v.CSS("radius", ParseWithUnit("px")))
	}, "radius")

	borderHandler = NewHandler("border", func(v Values) Declarations {
		if !v.Has("border") {
			return nil
		}
		if v.IsTrue("border") {
			return Decl("border", "var(--border-width) solid var(--border-color)")
		}
		if raw, ok := v.Raw("border").(string); ok {
			raw = strings.TrimSpace(raw)
			if strings.HasPrefix(raw, "#") && !strings.ContainsAny(raw, " \t") {
				return Decl("border", "var(--border-width) solid "+ParseStyle(raw))
			}
		}
		return Decl("border", v.CSS("border", ParseWithUnit("px")))
	}, "border")

	outlineHandler = NewHandler("outline", func(v Values) Declarations {
		if !v.Has("outline") {
			return nil
		}
		color := "var(--outline-color)"
		if !v.IsTrue("outline") {
			color = v.CSS("outline")
		}
		return Decl(localBoxShadowVar("outline"), "0 0 0 var(--outline-width) "+color)
	}, "outline")

	shadowHandler = NewHandler("shadow", func(v Values) Declarations {
		if !v.Has("shadow") {
			return nil
		}
		if v.IsTrue("shadow") {
			return Decl(localBoxShadowVar("shadow"), ParseStyle("0 5px 15px #shadow"))
		}
		return Decl(localBoxShadowVar("shadow"), v.CSS("shadow"))
	}, "shadow")

	opacityHandler = NewHandler("opacity", func(v Values) Declarations {
		switch v.Raw("opacity").(type) {
		case nil, bool:
			return nil
		}
		if !v.Has("opacity") {
			return nil
		}
		return Decl("opacity", v.CSS("opacity"))
	}, "opacity")

	displayHandler = NewHandler("display", func(v Values) Declarations {
		if !v.Has("display") || v.IsTrue("display") {
			return nil
		}
		return Decl("display", v.CSS("display"))
	}, "display")

	// flowHandler reads display to pick between grid and flex flow properties.
	flowHandler = NewHandler("flow", func(v Values) Declarations {
		if !v.Has("flow") || v.IsTrue("flow") {
			return nil
		}
		display := v.CSS("display")
		if strings.Contains(display, "grid") {
			return Decl("grid-auto-flow", v.CSS("flow"))
		}
		return Decl("flex-flow", v.CSS("flow"))
	}, "display", "flow")
)

func spacingHandler(style, property string) Handler {
	return NewHandler(style, func(v Values) Declarations {
		if !v.Has(style) {
			return nil
		}
		if v.IsTrue(style) {
			return Decl(property, "var(--gap)")
		}
		return Decl(property, v.CSS(style, ParseWithUnit("px")))
	}, style)
}

// DefaultRegistry returns a new registry holding the built-in handlers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	builtins := []struct {
		style    string
		handlers []Handler
	}{
		{"fill", []Handler{fillHandler}},
		{"color", []Handler{colorHandler}},
		{"padding", []Handler{paddingHandler}},
		{"margin", []Handler{marginHandler}},
		{"gap", []Handler{gapHandler}},
		{"radius", []Handler{radiusHandler}},
		{"border", []Handler{borderHandler}},
		{"outline", []Handler{outlineHandler}},
		{"shadow", []Handler{shadowHandler}},
		{"opacity", []Handler{opacityHandler}},
		{"display", []Handler{displayHandler, flowHandler}},
		{"flow", []Handler{flowHandler}},
	}
	for _, builtin := range builtins {
		// built-in names and handlers are never empty or nil
		_ = r.Register(builtin.style, builtin.handlers...)
	}
	_ = r.RegisterCombinator(BoxShadowCombinator)
	return r
}
