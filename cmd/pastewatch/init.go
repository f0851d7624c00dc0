package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/pastewatch.yaml
var configTemplate embed.FS

// configFileName is the default rule file name.
const configFileName = ".pastewatch"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new PasteWatch rule file",
		Long: `Initialize creates a new .pastewatch rule file in the current directory.

The generated file includes:
- A working credential-hunting matcher with bound actions
- Commented examples for regex and catch-all matchers
- Documentation for all rule options

Examples:
  # Create .pastewatch in current directory
  pastewatch init

  # Create rule file at a specific path
  pastewatch init -o myrules.yaml

  # Force overwrite existing file
  pastewatch init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the rule file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing rule file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("rule file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/pastewatch.yaml")
	if err != nil {
		return fmt.Errorf("failed to read rule template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write rule file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write rule file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created rule file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Word and regex matchers with blacklists")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Actions per matcher (save_file, store, log)")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Paste sources and an optional SOCKS5 proxy")

	return nil
}
