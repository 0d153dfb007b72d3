package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-styles/inspect"
)

type renderOptions struct {
	props   string
	mods    []string
	summary bool
}

func newRenderCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <component>",
		Short: "Render a component preset to CSS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, rootFlags, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.props, "props", "", "JSON object of style props applied over the preset")
	cmd.Flags().StringSliceVar(&opts.mods, "mods", nil, "Extra active mods")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print declared properties and media queries instead of CSS")

	return cmd
}

func runRender(cmd *cobra.Command, rootFlags *rootFlags, component string, opts *renderOptions) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, rootFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	merged, _, err := a.resolve(ctx, component, opts.props)
	if err != nil {
		return err
	}

	css, err := a.engine.RenderContext(ctx, merged, a.cfg.Zones(), a.mods(opts.mods))
	if err != nil {
		return newCommandError("render", component, err, "Check the preset and props hold supported values.")
	}

	if !opts.summary {
		fmt.Fprint(cmd.OutOrStdout(), css)
		return nil
	}

	sheet, err := inspect.Parse(css)
	if err != nil {
		return newCommandError("inspect", component, err, "")
	}
	out := cmd.OutOrStdout()
	for _, property := range sheet.Properties() {
		value, _ := sheet.Get(property)
		fmt.Fprintf(out, "%s = %s\n", property, value)
	}
	for _, block := range sheet.Media {
		fmt.Fprintf(out, "@media %s (%d declarations)\n", block.Query, len(block.Declarations))
	}
	return nil
}
