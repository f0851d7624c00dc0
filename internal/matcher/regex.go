package matcher

import (
	"fmt"
	"regexp"

	"github.com/pastewatch/pastewatch/internal/action"
	"github.com/pastewatch/pastewatch/internal/model"
)

// Regex matches pastes against a compiled regular expression and returns
// every non-overlapping match found in the body.
type Regex struct {
	name    string
	pattern *regexp.Regexp
	actions []action.Action
}

// NewRegex creates a regex matcher from the given pattern. The pattern
// is compiled once at construction; an invalid pattern is a
// configuration error, not a runtime matcher fault.
func NewRegex(name string, actions []action.Action, pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid matcher pattern %q: %w", pattern, err)
	}

	return &Regex{
		name:    name,
		pattern: re,
		actions: actions,
	}, nil
}

// Name returns the matcher name.
func (m *Regex) Name() string {
	if m.name != "" {
		return m.name
	}
	return fmt.Sprintf("regex (%s)", m.pattern.String())
}

// Actions returns the bound actions.
func (m *Regex) Actions() []action.Action {
	return m.actions
}

// Match returns all non-overlapping pattern matches in the paste body.
func (m *Regex) Match(paste *model.Paste) ([]string, error) {
	if paste == nil {
		return nil, nil
	}
	return m.pattern.FindAllString(paste.Body, -1), nil
}
