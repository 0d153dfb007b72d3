// Package state loads and saves per-layer style presets and resolves them into
// a merged StyleMap through the styles layer stack.
//
// A Store only loads or saves one StyleMap for one Ref. The Resolver loads the
// layers requested for a component, builds a styles.Stack and merges it, so
// the core styles package stays persistence-agnostic.
//
// Data flow:
//
//	Store -> Resolver -> styles.NewStack(...).Merge() -> styles.StyleMap
package state
