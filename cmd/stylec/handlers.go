package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	styles "github.com/goliatone/go-styles"
)

func newHandlersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "Describe the built-in style handlers as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := json.MarshalIndent(styles.DefaultRegistry().Describe(), "", "  ")
			if err != nil {
				return newCommandError("describe handlers", "encoding JSON", err, "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}
}
