package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type traceOptions struct {
	props string
}

func newTraceCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &traceOptions{}

	cmd := &cobra.Command{
		Use:   "trace <component> <style>",
		Short: "Show which layer supplies a style prop",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, rootFlags, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.props, "props", "", "JSON object of style props applied over the preset")

	return cmd
}

func runTrace(cmd *cobra.Command, rootFlags *rootFlags, component, style string, opts *traceOptions) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, rootFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	_, stack, err := a.resolve(ctx, component, opts.props)
	if err != nil {
		return err
	}

	payload, err := stack.Trace(style).ToJSON()
	if err != nil {
		return newCommandError("trace", style, err, "")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	return nil
}
