package matcher

import (
	"github.com/pastewatch/pastewatch/internal/action"
	"github.com/pastewatch/pastewatch/internal/model"
)

// Matcher is the extension contract for content rules.
type Matcher interface {
	// Name returns the matcher's identifying name. It is handed to the
	// triggered actions and recorded with stored matches.
	Name() string

	// Match evaluates the paste and returns every matched term. An
	// empty (or nil) slice means no match. A returned error is a local
	// matcher fault: the dispatch stage logs it and continues with the
	// remaining matchers.
	Match(paste *model.Paste) ([]string, error)

	// Actions returns the actions bound to this matcher, in the order
	// they should be invoked when the matcher produces a match.
	Actions() []action.Action
}
