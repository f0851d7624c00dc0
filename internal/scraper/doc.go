// Package scraper provides the pluggable paste producers.
//
// A Source is an independently restartable generator of pastes from one
// external origin. The scraping manager pulls pastes from each source on
// its own goroutine; a source signals an unrecoverable condition by
// returning an error from Next, which halts the whole pipeline.
package scraper
