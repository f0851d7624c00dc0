package template

import (
	"os"
	"strings"

	"github.com/pastewatch/pastewatch/internal/model"
)

// DefaultTemplate writes the paste body and nothing else.
const DefaultTemplate = "${body}"

// Placeholder names accepted by Fill. Unknown placeholders expand to the
// empty string, matching os.Expand semantics, so a typo in a template
// degrades to missing output rather than an error at match time.
const (
	PlaceholderBody    = "body"
	PlaceholderKey     = "key"
	PlaceholderTitle   = "title"
	PlaceholderSource  = "source"
	PlaceholderMatcher = "matcher"
	PlaceholderMatches = "matches"
	PlaceholderDate    = "date"
)

// Fill expands the named placeholders in tmpl with data from the paste,
// the matcher that triggered the action, and the match list. Matches are
// joined with ", ". The date placeholder uses RFC 3339.
func Fill(tmpl string, paste *model.Paste, matcherName string, matches []string) string {
	if tmpl == "" {
		tmpl = DefaultTemplate
	}

	return os.Expand(tmpl, func(name string) string {
		switch name {
		case PlaceholderBody:
			return paste.Body
		case PlaceholderKey:
			return paste.Key
		case PlaceholderTitle:
			return paste.Title
		case PlaceholderSource:
			return paste.Source
		case PlaceholderMatcher:
			return matcherName
		case PlaceholderMatches:
			return strings.Join(matches, ", ")
		case PlaceholderDate:
			return paste.ScrapedAt.Format("2006-01-02T15:04:05Z07:00")
		default:
			return ""
		}
	})
}
