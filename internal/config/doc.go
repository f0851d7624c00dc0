// Package config provides configuration structures and utilities for
// PasteWatch. It defines the runtime options for scraping paste sites,
// the watch rule file format (matchers and their bound actions), and
// report generation preferences.
package config
