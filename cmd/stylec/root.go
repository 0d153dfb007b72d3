package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "stylec",
		Short:         "stylec compiles style presets into CSS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "styles.yaml", "Path to the styles config file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log every render at debug level")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newTraceCmd(flags))
	cmd.AddCommand(newPresetsCmd(flags))
	cmd.AddCommand(newHandlersCmd())

	return cmd
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	msg := fmt.Sprintf("Failed to %s: %s\n\nError: %v", e.operation, e.context, e.cause)
	if strings.TrimSpace(e.suggestion) != "" {
		msg += "\n\nSuggestion: " + e.suggestion
	}
	return msg
}

func (e *commandError) Unwrap() error {
	return e.cause
}
