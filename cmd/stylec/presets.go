package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPresetsCmd(rootFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List configured component presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), rootFlags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range a.cfg.PresetNames() {
				preset, _ := a.cfg.Preset(name)
				fmt.Fprintf(out, "%s: %s\n", name, strings.Join(preset.Names(), ", "))
			}
			return nil
		},
	}
}
