// Package main provides the entry point for the PasteWatch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for PasteWatch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pastewatch",
		Short: "Monitor public paste sites for sensitive content",
		Long: `PasteWatch monitors public paste sites for sensitive content.
It scrapes new pastes as they appear, evaluates them against configurable
matchers (word lists, regular expressions), and triggers actions on hits:
saving the paste to disk, storing it in a database, or logging the match.

Watch rules live in a .pastewatch YAML file. Run "pastewatch init" to
generate a starter rule file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
