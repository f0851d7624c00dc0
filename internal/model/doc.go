// Package model defines the core data structures shared across the
// pastewatch pipeline: scraped pastes and the metadata attached to them.
package model
