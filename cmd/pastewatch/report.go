package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pastewatch/pastewatch/internal/config"
	"github.com/pastewatch/pastewatch/internal/database"
	"github.com/pastewatch/pastewatch/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize watch activity from the database",
		Long: `Report reads the paste database written by the watch command and
summarizes the activity: paste counts per source, match counts per
matcher, and the most recent matches.

Examples:
  # Human-readable summary from the default database location
  pastewatch report

  # Report on a specific database
  pastewatch report --db-dir ./data

  # Markdown report written to a file
  pastewatch report --markdown -o report.md

  # JSON for tool integration
  pastewatch report --json`,
		RunE: runReportCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Directory containing the SQLite database (default: XDG data directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().IntP("limit", "n", report.DefaultRecentLimit,
		"Number of recent matches to include")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOut && markdownOut {
		return config.ErrConflictingReportFormats
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	// Never create an empty database just to report on it.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	summary, err := report.BuildSummary(cmd.Context(), db, limit)
	if err != nil {
		return fmt.Errorf("failed to build summary: %w", err)
	}

	output, closeOutput, err := openReportOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOutput()

	var writer report.Writer
	switch {
	case jsonOut:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case markdownOut:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// openReportOutput resolves the report destination: a file when
// requested, stdout otherwise.
func openReportOutput(outputPath string) (*os.File, func(), error) {
	if outputPath == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain matched secrets; owner-only permissions.
	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}
