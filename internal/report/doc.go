// Package report generates watch activity reports from the paste
// database. It supports human-readable text output for terminal use,
// JSON for tool integration, and Markdown for documentation and
// sharing.
//
// All formats render the same Summary: paste counts per source, match
// counts per matcher, and the most recent match records.
package report
