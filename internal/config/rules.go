package config

import (
	"fmt"
	"regexp"
)

// Matcher rule types accepted in the rule file.
const (
	// MatcherWord matches pastes containing any of a list of words.
	MatcherWord = "word"

	// MatcherRegex matches pastes against a regular expression.
	MatcherRegex = "regex"

	// MatcherAlways matches every paste. Useful for catch-all logging
	// or archival rules.
	MatcherAlways = "always"
)

// Action rule types accepted in the rule file.
const (
	// ActionSaveFile writes the matched paste to disk.
	ActionSaveFile = "save_file"

	// ActionStore persists the matched paste and the match itself to
	// the database. Requires a configured database directory.
	ActionStore = "store"

	// ActionLog emits a structured log line for the match.
	ActionLog = "log"
)

// ActionRule describes one action bound to a matcher in the rule file.
type ActionRule struct {
	// Type selects the action: "save_file", "store", or "log".
	Type string `yaml:"type"`

	// Path is the output directory for the save_file action.
	// If empty, the global save directory is used.
	Path string `yaml:"path,omitempty"`

	// FileEnding is the file extension for the save_file action,
	// e.g. ".txt". If empty, the action's default is used.
	FileEnding string `yaml:"fileEnding,omitempty"`

	// Template controls what the save_file action writes. Placeholders
	// like ${body}, ${key}, and ${matches} are expanded per paste.
	// If empty, the raw paste body is written.
	Template string `yaml:"template,omitempty"`
}

// MatcherRule describes one matcher and its bound actions in the rule file.
type MatcherRule struct {
	// Name identifies the matcher in logs and reports. If empty, a name
	// is derived from the matcher's configuration.
	Name string `yaml:"name,omitempty"`

	// Type selects the matcher: "word", "regex", or "always".
	Type string `yaml:"type"`

	// Words is the list of target words for the word matcher.
	Words []string `yaml:"words,omitempty"`

	// Blacklist suppresses a word match when any of these words is also
	// present in the paste.
	Blacklist []string `yaml:"blacklist,omitempty"`

	// CaseSensitive makes word comparison case sensitive.
	// Default is case insensitive, which is what credential hunting wants.
	CaseSensitive bool `yaml:"caseSensitive,omitempty"`

	// Pattern is the regular expression for the regex matcher, using Go
	// regexp syntax.
	Pattern string `yaml:"pattern,omitempty"`

	// Actions are the actions invoked when this matcher hits.
	Actions []ActionRule `yaml:"actions"`
}

// File represents the structure of the .pastewatch rule file.
type File struct {
	// Matchers are evaluated against every scraped paste in the order
	// they appear in the file.
	Matchers []MatcherRule `yaml:"matchers,omitempty"`

	// Sources lists the paste sources to scrape. Currently "pastebin"
	// is the only built-in source; an empty list means the default
	// source is used.
	Sources []string `yaml:"sources,omitempty"`

	// Proxy overrides the SOCKS5 proxy address from the command line.
	Proxy string `yaml:"proxy,omitempty"`
}

// Validate checks every rule in the file.
// Rule errors wrap the package sentinel errors with the offending
// matcher's position and name so operators can find the bad rule.
func (f *File) Validate() error {
	for i, m := range f.Matchers {
		if err := m.validate(); err != nil {
			return fmt.Errorf("matcher %d (%q): %w", i+1, m.Name, err)
		}
	}
	return nil
}

// validate checks one matcher rule and its actions.
func (m *MatcherRule) validate() error {
	switch m.Type {
	case MatcherWord:
		if len(m.Words) == 0 {
			return ErrNoWords
		}
	case MatcherRegex:
		if m.Pattern == "" {
			return ErrNoPattern
		}
		if _, err := regexp.Compile(m.Pattern); err != nil {
			return fmt.Errorf("%w: %v", ErrNoPattern, err)
		}
	case MatcherAlways:
		// nothing to check
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMatcherType, m.Type)
	}

	if len(m.Actions) == 0 {
		return ErrNoActions
	}
	for _, a := range m.Actions {
		switch a.Type {
		case ActionSaveFile, ActionStore, ActionLog:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownActionType, a.Type)
		}
	}
	return nil
}

// NeedsDatabase reports whether any rule in the file binds a store
// action. The watch command uses this to refuse a rule file that stores
// matches while no database is configured.
func (f *File) NeedsDatabase() bool {
	for _, m := range f.Matchers {
		for _, a := range m.Actions {
			if a.Type == ActionStore {
				return true
			}
		}
	}
	return false
}
