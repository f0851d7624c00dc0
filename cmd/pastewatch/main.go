// Package main provides the entry point for the PasteWatch CLI.
//
// PasteWatch monitors public paste sites for sensitive content.
// It scrapes new pastes, evaluates them against configurable matchers,
// and triggers actions (save to disk, store to database, log) on hits.
//
// Usage:
//
//	pastewatch watch
//	pastewatch watch -c rules.yaml --db-dir ./data
//
// See --help for all available options.
package main

// main is the entry point for PasteWatch.
func main() {
	Execute()
}
