package main

import (
	"context"
	"io"

	styles "github.com/goliatone/go-styles"
	"github.com/goliatone/go-styles/config"
	"github.com/goliatone/go-styles/pkg/activity"
	"github.com/goliatone/go-styles/pkg/logging"
	"github.com/goliatone/go-styles/pkg/metrics"
	"github.com/goliatone/go-styles/pkg/state"
)

// presetLayer is the layer config presets are stored under.
var presetLayer = state.LayerRef{Name: "preset", Label: "Preset", Priority: styles.LayerPriorityContext}

// app bundles everything a command needs once the config is loaded.
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	engine   *styles.Engine
	resolver state.Resolver
}

func newApp(ctx context.Context, flags *rootFlags, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, newCommandError("load config", flags.configPath, err, "Check the file exists and is valid YAML.")
	}

	level := cfg.Logging.Level
	if flags.verbose {
		level = "debug"
	}
	log, err := logging.New(logging.Options{Level: level, HumanReadable: cfg.Logging.HumanReadable, Writer: logOut})
	if err != nil {
		return nil, newCommandError("create logger", "parsing log level", err, "Use one of trace, debug, info, warn or error.")
	}

	collector, err := metrics.New(metrics.Config{})
	if err != nil {
		return nil, newCommandError("register metrics", "creating collectors", err, "")
	}

	hooks := activity.Hooks{activity.HookFunc(func(_ context.Context, event activity.Event) error {
		log.WithFields(map[string]any{"verb": event.Verb, "object": event.ObjectID}).Info("activity")
		return nil
	})}

	engine, err := cfg.NewEngine(
		styles.WithRenderLogger(styles.MultiRenderLogger{logging.NewRenderLogger(log), collector}),
		styles.WithActivityHooks(hooks),
	)
	if err != nil {
		return nil, newCommandError("build engine", "applying config", err, "Check mods.engine is one of native, expr, cel or js.")
	}

	store := state.NewMemoryStore()
	for _, name := range cfg.PresetNames() {
		preset, _ := cfg.Preset(name)
		if _, err := store.Save(ctx, state.Ref{Component: name, Layer: presetLayer}, preset, state.Meta{}); err != nil {
			return nil, newCommandError("load presets", name, err, "Preset names must not contain '/'.")
		}
	}

	return &app{
		cfg:      cfg,
		log:      log,
		engine:   engine,
		resolver: state.Resolver{Store: store},
	}, nil
}

// resolve merges the component preset with props decoded from JSON.
func (a *app) resolve(ctx context.Context, component, propsJSON string) (styles.StyleMap, *styles.Stack, error) {
	var props styles.StyleMap
	if propsJSON != "" {
		decoded, err := styles.DecodeStyleMap("props", []byte(propsJSON))
		if err != nil {
			return nil, nil, newCommandError("decode props", "parsing --props", err, `Pass a JSON object such as '{"fill": "#primary"}'.`)
		}
		props = decoded
	}
	merged, stack, err := a.resolver.ResolveWithProps(ctx, component, props, presetLayer)
	if err != nil {
		return nil, nil, newCommandError("resolve styles", component, err, "Run 'stylec presets' to list configured presets.")
	}
	return merged, stack, nil
}

// mods combines the config defaults with names given on the command line.
func (a *app) mods(extra []string) styles.Mods {
	names := append(a.cfg.ActiveMods().Names(), extra...)
	return styles.NewMods(names...)
}
